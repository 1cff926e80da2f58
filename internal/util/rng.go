package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"strings"

	apperrors "roguecore/internal/errors"
)

const golden = 0x9E3779B97F4A7C15

// ErrInvalidSeed is returned by ParseSeed for an empty seed.
var ErrInvalidSeed = apperrors.New(apperrors.CodeSeedInvalid, "seed must not be empty")

// Rand is a deterministic, forkable generator. It is not safe for concurrent
// use; every stream has exactly one logical owner.
type Rand struct {
	seed  uint64
	label string
	forks uint64
	src   *rand.PCG
}

// Descriptor is the introspection view of a Rand.
type Descriptor struct {
	Seed  uint64 `json:"seed"`
	Label string `json:"label,omitempty"`
	Forks uint64 `json:"forks"`
}

// New builds a generator from seed. Equal seeds give equal output on every platform.
func New(seed uint64, label string) *Rand {
	x := seed ^ golden
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	return &Rand{seed: seed, label: label, src: rand.NewPCG(hi, lo)}
}

// ParseSeed turns user-facing seed text into a numeric seed. Decimal text is
// used as-is; anything else is hashed. Empty text is rejected.
func ParseSeed(text string) (uint64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrInvalidSeed
	}
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return uint64(v), nil
	}
	sum := sha256.Sum256([]byte(text))
	return binary.LittleEndian.Uint64(sum[:8]), nil
}

// Restore rebuilds a generator from a State snapshot.
func Restore(seed uint64, label string, state []byte) (*Rand, error) {
	src := &rand.PCG{}
	if err := src.UnmarshalBinary(state); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSeedInvalid, "restore rng state", err)
	}
	return &Rand{seed: seed, label: label, src: src}, nil
}

// State returns the serialized generator state.
func (r *Rand) State() ([]byte, error) {
	return r.src.MarshalBinary()
}

func (r *Rand) next() uint64 { return r.src.Uint64() }

// Uint64 returns one raw 64-bit draw.
func (r *Rand) Uint64() uint64 { return r.next() }

// Int returns an integer in [min, max]. It consumes exactly one draw and
// reduces it modulo the range size; the bias is at most size/2^64.
func (r *Rand) Int(min, max int) int {
	if min > max {
		panic("util: Int called with min > max")
	}
	size := uint64(max-min) + 1
	if size == 0 {
		// full 64-bit range
		return min + int(r.next())
	}
	return min + int(r.next()%size)
}

// Float returns a number in [0, 1) from one draw.
func (r *Rand) Float() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Bool reports true with probability p.
func (r *Rand) Bool(p float64) bool {
	return r.Float() < p
}

// Read fills p from the stream, eight bytes per draw.
func (r *Rand) Read(p []byte) (int, error) {
	var buf [8]byte
	n := 0
	for n < len(p) {
		binary.LittleEndian.PutUint64(buf[:], r.next())
		n += copy(p[n:], buf[:])
	}
	return n, nil
}

// Fork derives an independent child from the current state and label. The
// parent's output sequence is left as it was; only its fork counter moves.
func (r *Rand) Fork(label string) *Rand {
	state, err := r.src.MarshalBinary()
	if err != nil {
		// PCG marshalling cannot fail
		panic(err)
	}
	m := hmac.New(sha256.New, state)
	_, _ = m.Write([]byte(label))
	sum := m.Sum(nil)
	hi := binary.LittleEndian.Uint64(sum[0:8])
	lo := binary.LittleEndian.Uint64(sum[8:16])
	r.forks++
	return &Rand{seed: hi, label: label, src: rand.NewPCG(hi, lo)}
}

// Describe is introspection only.
func (r *Rand) Describe() Descriptor {
	return Descriptor{Seed: r.seed, Label: r.label, Forks: r.forks}
}

// clone copies the generator including its position.
func (r *Rand) clone() *Rand {
	src := *r.src
	return &Rand{seed: r.seed, label: r.label, forks: r.forks, src: &src}
}

// Choose picks one element with Int(0, len-1). It panics on an empty slice.
func Choose[T any](r *Rand, seq []T) T {
	if len(seq) == 0 {
		panic("util: Choose from empty sequence")
	}
	return seq[r.Int(0, len(seq)-1)]
}

// Shuffle permutes seq in place with Fisher-Yates.
func Shuffle[T any](r *Rand, seq []T) {
	for i := len(seq) - 1; i > 0; i-- {
		j := r.Int(0, i)
		seq[i], seq[j] = seq[j], seq[i]
	}
}

func splitmix64(x uint64) uint64 {
	x += golden
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}
