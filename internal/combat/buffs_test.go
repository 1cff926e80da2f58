package combat

import (
	"reflect"
	"testing"

	"roguecore/internal/util"
)

var (
	warCry   = Ability{ID: "war_cry", Name: "War Cry", Effect: Effect{Kind: EffectBuff, Stat: StatAttack, Magnitude: 5, Duration: 3}}
	focus    = Ability{ID: "focus", Name: "Focus", Effect: Effect{Kind: EffectBuff, Stat: StatAttack, Magnitude: 3, Duration: 2}}
	shell    = Ability{ID: "shell", Name: "Shell", Effect: Effect{Kind: EffectBuff, Stat: StatDefense, Magnitude: 4, Duration: 2}}
	sunder   = Ability{ID: "sunder", Name: "Sunder", Effect: Effect{Kind: EffectDebuff, Stat: StatDefense, Magnitude: 2, Duration: 2}}
	slash    = Ability{ID: "slash", Name: "Slash", Power: 12}
	badBuff  = Ability{ID: "bad", Name: "Bad", Effect: Effect{Kind: EffectBuff, Stat: "luck", Magnitude: 5}}
	zeroBuff = Ability{ID: "zero", Name: "Zero", Effect: Effect{Kind: EffectBuff, Stat: StatSpeed}}
)

func testUnit() Unit {
	return NewUnit("knight", TeamAllies, 100, BaseStats{Attack: 10, Defense: 5, Speed: 7})
}

func TestApplyBuff_NonBuffIsNoop(t *testing.T) {
	l := NewLedger(util.New(1, "effects"))
	u := l.ApplyBuff(testUnit(), warCry, 3)
	for _, ab := range []Ability{slash, badBuff, zeroBuff} {
		got := l.ApplyBuff(u, ab, 3)
		if !reflect.DeepEqual(got.Buffs, u.Buffs) {
			t.Fatalf("%s changed the buff list", ab.ID)
		}
	}
}

func TestApplyBuff_Pure(t *testing.T) {
	l := NewLedger(nil)
	u := l.ApplyBuff(testUnit(), warCry, 3)
	before := ActiveBuffs(u)
	v := l.ApplyBuff(u, focus, 2)
	if !reflect.DeepEqual(u.Buffs, before) {
		t.Fatal("ApplyBuff mutated its input")
	}
	if len(v.Buffs) != 2 {
		t.Fatalf("got %d buffs, want 2", len(v.Buffs))
	}
	b := v.Buffs[1]
	if b.Stat != StatAttack || b.Magnitude != 3 || b.Duration != 2 || b.SourceID != "focus" || b.SourceName != "Focus" {
		t.Fatalf("unexpected buff %+v", b)
	}
	if b.ID == "" || b.ID == v.Buffs[0].ID {
		t.Fatalf("buff ids must be unique, got %q and %q", v.Buffs[0].ID, b.ID)
	}
}

func TestApplyBuff_DebuffIsNegative(t *testing.T) {
	u := NewLedger(nil).ApplyBuff(testUnit(), sunder, 2)
	if got := BuffModifier(u, StatDefense); got != -2 {
		t.Fatalf("defense modifier = %d, want -2", got)
	}
	if got := EffectiveStat(u, StatDefense); got != 3 {
		t.Fatalf("effective defense = %d, want 3", got)
	}
}

func TestApplyBuff_DeterministicIDs(t *testing.T) {
	a := NewLedger(util.New(5, "effects")).ApplyBuff(testUnit(), warCry, 3)
	b := NewLedger(util.New(5, "effects")).ApplyBuff(testUnit(), warCry, 3)
	if a.Buffs[0].ID != b.Buffs[0].ID {
		t.Fatalf("ids from equal streams differ: %s vs %s", a.Buffs[0].ID, b.Buffs[0].ID)
	}
}

func TestDecayBuffs_Lifetime(t *testing.T) {
	for _, d := range []int{1, 2, 3, 5} {
		u := NewLedger(nil).ApplyBuff(testUnit(), warCry, d)
		for i := 1; i <= d; i++ {
			if !HasActiveBuffs(u) {
				t.Fatalf("duration %d: buff gone before decay %d", d, i)
			}
			u = DecayBuffs(u)
		}
		if HasActiveBuffs(u) {
			t.Fatalf("duration %d: buff still present after %d decays", d, d)
		}
	}
}

func TestDecayBuffs_ZeroDurationDropsOnFirstDecay(t *testing.T) {
	u := NewLedger(nil).ApplyBuff(testUnit(), warCry, 0)
	if !HasActiveBuffs(u) {
		t.Fatal("buff should exist until the first decay")
	}
	if HasActiveBuffs(DecayBuffs(u)) {
		t.Fatal("zero-duration buff should drop on first decay")
	}
}

func TestDecayBuffs_Pure(t *testing.T) {
	u := NewLedger(nil).ApplyBuff(testUnit(), warCry, 3)
	_ = DecayBuffs(u)
	if u.Buffs[0].Duration != 3 {
		t.Fatalf("decay mutated input, duration = %d", u.Buffs[0].Duration)
	}
}

func TestDecayAllBuffs(t *testing.T) {
	l := NewLedger(nil)
	a := l.ApplyBuff(testUnit(), warCry, 1)
	b := NewUnit("slime", TeamEnemies, 30, BaseStats{})
	b = l.ApplyBuff(b, shell, 2)
	out := DecayAllBuffs([]Unit{a, b})
	if HasActiveBuffs(out[0]) {
		t.Fatal("1-turn buff should have expired")
	}
	if len(out[1].Buffs) != 1 || out[1].Buffs[0].Duration != 1 {
		t.Fatalf("unexpected buffs on second unit: %+v", out[1].Buffs)
	}
	if len(a.Buffs) != 1 {
		t.Fatal("DecayAllBuffs mutated its input")
	}
}

func TestBuffModifier_Sums(t *testing.T) {
	l := NewLedger(nil)
	u := l.ApplyBuff(testUnit(), warCry, 3)
	u = l.ApplyBuff(u, focus, 3)
	u = l.ApplyBuff(u, shell, 3)
	if got := BuffModifier(u, StatAttack); got != 8 {
		t.Fatalf("attack modifier = %d, want 8", got)
	}
	if got := BuffModifier(u, StatSpeed); got != 0 {
		t.Fatalf("speed modifier = %d, want 0", got)
	}
	want := Summary{Attack: 8, Defense: 4, Speed: 0}
	if got := BuffSummary(u); got != want {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
}

func TestBuffModifier_Stacking(t *testing.T) {
	l := NewLedger(nil)
	u := l.ApplyBuff(testUnit(), warCry, 3)
	u = l.ApplyBuff(u, warCry, 3)
	if len(u.Buffs) != 2 {
		t.Fatalf("stacked buffs = %d, want 2", len(u.Buffs))
	}
	if got := BuffModifier(u, StatAttack); got != 10 {
		t.Fatalf("stacked modifier = %d, want 10", got)
	}
}

func TestRemoveAllBuffs(t *testing.T) {
	u := NewLedger(nil).ApplyBuff(testUnit(), warCry, 3)
	c := RemoveAllBuffs(u)
	if HasActiveBuffs(c) || len(ActiveBuffs(c)) != 0 {
		t.Fatal("cleanse left buffs behind")
	}
	if !HasActiveBuffs(u) {
		t.Fatal("cleanse mutated its input")
	}
}

func TestActiveBuffs_IsCopy(t *testing.T) {
	u := NewLedger(nil).ApplyBuff(testUnit(), warCry, 3)
	bs := ActiveBuffs(u)
	bs[0].Magnitude = 100
	if BuffModifier(u, StatAttack) != 5 {
		t.Fatal("ActiveBuffs exposed internal storage")
	}
}
