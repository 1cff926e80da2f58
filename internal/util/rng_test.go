package util

import (
	"errors"
	"slices"
	"testing"
)

func draws(r *Rand, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = r.Uint64()
	}
	return out
}

func TestNew_Determinism(t *testing.T) {
	for _, seed := range []uint64{0, 1, 42, 12345, ^uint64(0)} {
		a := draws(New(seed, "root"), 16)
		b := draws(New(seed, "root"), 16)
		if !slices.Equal(a, b) {
			t.Fatalf("seed %d: sequences differ", seed)
		}
	}
	if slices.Equal(draws(New(1, ""), 8), draws(New(2, ""), 8)) {
		t.Fatal("different seeds produced identical output")
	}
}

func TestFork_ChainDeterminism(t *testing.T) {
	labels := []string{"battle", "turn:3", "crit"}
	run := func() []uint64 {
		r := New(777, "")
		for _, l := range labels {
			r = r.Fork(l)
		}
		return draws(r, 12)
	}
	if !slices.Equal(run(), run()) {
		t.Fatal("fork chain is not deterministic")
	}
}

func TestFork_DoesNotPerturbParent(t *testing.T) {
	plain := New(9, "")
	forked := New(9, "")
	_ = forked.Fork("loot")
	_ = forked.Fork("map")
	if !slices.Equal(draws(plain, 10), draws(forked, 10)) {
		t.Fatal("forking changed the parent's output")
	}
	if got := forked.Describe().Forks; got != 2 {
		t.Fatalf("forks = %d, want 2", got)
	}
}

func TestFork_SameLabelSameState(t *testing.T) {
	a := New(5, "").Fork("save")
	b := New(5, "").Fork("save")
	if !slices.Equal(draws(a, 8), draws(b, 8)) {
		t.Fatal("same label from same state must reproduce the sub-stream")
	}

	// same generator, same position, forked twice
	p := New(5, "")
	c1 := p.Fork("save")
	c2 := p.Fork("save")
	if !slices.Equal(draws(c1, 8), draws(c2, 8)) {
		t.Fatal("fork must depend only on state and label")
	}
}

func TestFork_Independence(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 1000} {
		p := New(seed, "")
		a := draws(p.Fork("battle"), 3)
		b := draws(p.Fork("loot"), 3)
		if slices.Equal(a, b) {
			t.Fatalf("seed %d: distinct labels gave identical samples", seed)
		}
		child := draws(p.Fork("ai"), 3)
		if slices.Equal(child, draws(p, 3)) {
			t.Fatalf("seed %d: child matches parent", seed)
		}
	}
}

func TestFork_Describe(t *testing.T) {
	r := New(100, "root")
	if d := r.Describe(); d.Seed != 100 || d.Label != "root" || d.Forks != 0 {
		t.Fatalf("unexpected descriptor %+v", d)
	}
	c := r.Fork("battle")
	if d := c.Describe(); d.Label != "battle" || d.Forks != 0 {
		t.Fatalf("unexpected child descriptor %+v", d)
	}
	before := draws(New(100, "root"), 4)
	r2 := New(100, "root")
	_ = r2.Describe()
	if !slices.Equal(before, draws(r2, 4)) {
		t.Fatal("Describe must not consume draws")
	}
}

func TestInt_Range(t *testing.T) {
	r := New(42, "")
	tests := []struct{ min, max int }{
		{1, 6}, {0, 0}, {-5, 5}, {10, 11}, {0, 99},
	}
	for _, tt := range tests {
		seen := map[int]bool{}
		for i := 0; i < 2000; i++ {
			v := r.Int(tt.min, tt.max)
			if v < tt.min || v > tt.max {
				t.Fatalf("Int(%d, %d) = %d out of range", tt.min, tt.max, v)
			}
			seen[v] = true
		}
		if span := tt.max - tt.min + 1; span <= 20 && len(seen) != span {
			t.Fatalf("Int(%d, %d) hit %d of %d values", tt.min, tt.max, len(seen), span)
		}
	}
}

func TestInt_ConsumesOneDraw(t *testing.T) {
	a := New(3, "")
	b := New(3, "")
	_ = a.Int(1, 6)
	_ = b.Uint64()
	if a.Uint64() != b.Uint64() {
		t.Fatal("Int must consume exactly one draw")
	}
}

func TestInt_FullRange(t *testing.T) {
	r := New(8, "")
	const maxInt = int(^uint(0) >> 1)
	_ = r.Int(-maxInt-1, maxInt)
}

func TestInt_PanicsOnInvertedRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(1, "").Int(5, 1)
}

func TestFloatAndBool(t *testing.T) {
	r := New(11, "")
	trues := 0
	const n = 10000
	for i := 0; i < n; i++ {
		f := r.Float()
		if f < 0 || f >= 1 {
			t.Fatalf("Float() = %v out of [0,1)", f)
		}
		if r.Bool(0.25) {
			trues++
		}
	}
	if ratio := float64(trues) / n; ratio < 0.22 || ratio > 0.28 {
		t.Fatalf("Bool(0.25) frequency %.3f", ratio)
	}
	if New(1, "").Bool(0) {
		t.Fatal("Bool(0) must be false")
	}
	if !New(1, "").Bool(1) {
		t.Fatal("Bool(1) must be true")
	}
}

func TestChoose(t *testing.T) {
	seq := []string{"a", "b", "c"}
	a := New(4, "")
	b := New(4, "")
	for i := 0; i < 20; i++ {
		if Choose(a, seq) != Choose(b, seq) {
			t.Fatal("Choose is not deterministic")
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty sequence")
		}
	}()
	Choose(a, []string{})
}

func TestShuffle_Deterministic(t *testing.T) {
	base := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	x := slices.Clone(base)
	y := slices.Clone(base)
	Shuffle(New(21, ""), x)
	Shuffle(New(21, ""), y)
	if !slices.Equal(x, y) {
		t.Fatalf("shuffles differ: %v vs %v", x, y)
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	if !slices.Equal(sorted, base) {
		t.Fatalf("shuffle is not a permutation: %v", x)
	}
}

func TestRead_Deterministic(t *testing.T) {
	a := make([]byte, 20)
	b := make([]byte, 20)
	if _, err := New(6, "").Read(a); err != nil {
		t.Fatal(err)
	}
	if _, err := New(6, "").Read(b); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a, b) {
		t.Fatal("Read is not deterministic")
	}
}

func TestStateRestore(t *testing.T) {
	r := New(13, "battle")
	_ = draws(r, 5)
	state, err := r.State()
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	restored, err := Restore(13, "battle", state)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !slices.Equal(draws(r, 6), draws(restored, 6)) {
		t.Fatal("restored stream diverged")
	}
	if _, err := Restore(13, "battle", []byte("junk")); err == nil {
		t.Fatal("expected error for junk state")
	}
}

func TestParseSeed(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "decimal", in: "12345", want: 12345},
		{name: "padded", in: "  7 ", want: 7},
		{name: "negative", in: "-1", want: ^uint64(0)},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeed(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSeed) {
					t.Fatalf("expected ErrInvalidSeed, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseSeed(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}

	a, _ := ParseSeed("dragon-run")
	b, _ := ParseSeed("dragon-run")
	c, _ := ParseSeed("dragon-walk")
	if a != b || a == c {
		t.Fatal("text seeds must hash deterministically and distinctly")
	}
}
