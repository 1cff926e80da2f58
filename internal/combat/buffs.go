package combat

import (
	"io"

	"github.com/google/uuid"
)

// Buff is a timed, signed stat modifier. Debuffs carry a negative magnitude.
type Buff struct {
	ID         string `json:"id"`
	Stat       Stat   `json:"stat"`
	Magnitude  int    `json:"magnitude"`
	Duration   int    `json:"duration"`
	SourceID   string `json:"source_id"`
	SourceName string `json:"source_name"`
}

// Summary aggregates modifiers over the tracked stats.
type Summary struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// Ledger applies buffs. It only carries the id source; every operation is
// pure with respect to the units passed in.
type Ledger struct {
	ids io.Reader
}

// NewLedger returns a ledger that reads buff ids from ids. Pass an RNG
// stream to make ids reproducible; nil uses random UUIDs.
func NewLedger(ids io.Reader) *Ledger {
	return &Ledger{ids: ids}
}

func (l *Ledger) newID() string {
	if l == nil || l.ids == nil {
		return uuid.NewString()
	}
	id, err := uuid.NewRandomFromReader(l.ids)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ApplyBuff appends a buff built from the ability's effect. Effects that are
// not buff-shaped leave the unit unchanged.
func (l *Ledger) ApplyBuff(u Unit, ab Ability, duration int) Unit {
	ef := ab.Effect
	if !ef.Kind.IsBuff() || !ef.Stat.Valid() || ef.Magnitude == 0 {
		return u
	}
	b := Buff{
		ID:         l.newID(),
		Stat:       ef.Stat,
		Magnitude:  ef.SignedMagnitude(),
		Duration:   duration,
		SourceID:   ab.ID,
		SourceName: ab.Name,
	}
	out := u
	out.Buffs = make([]Buff, 0, len(u.Buffs)+1)
	out.Buffs = append(out.Buffs, u.Buffs...)
	out.Buffs = append(out.Buffs, b)
	return out
}

// DecayBuffs ticks every buff down by one turn and drops the expired ones.
func DecayBuffs(u Unit) Unit {
	out := u
	out.Buffs = nil
	for _, b := range u.Buffs {
		b.Duration--
		if b.Duration > 0 {
			out.Buffs = append(out.Buffs, b)
		}
	}
	return out
}

// DecayAllBuffs runs DecayBuffs on every unit. Units do not interact.
func DecayAllBuffs(units []Unit) []Unit {
	out := make([]Unit, len(units))
	for i, u := range units {
		out[i] = DecayBuffs(u)
	}
	return out
}

func BuffModifier(u Unit, stat Stat) int {
	total := 0
	for _, b := range u.Buffs {
		if b.Stat == stat {
			total += b.Magnitude
		}
	}
	return total
}

// EffectiveStat is base plus buff modifier; combat math reads stats through it.
func EffectiveStat(u Unit, stat Stat) int {
	return u.Base.Get(stat) + BuffModifier(u, stat)
}

func ActiveBuffs(u Unit) []Buff {
	return append([]Buff(nil), u.Buffs...)
}

func HasActiveBuffs(u Unit) bool { return len(u.Buffs) > 0 }

// RemoveAllBuffs is the cleanse effect.
func RemoveAllBuffs(u Unit) Unit {
	out := u
	out.Buffs = nil
	return out
}

func BuffSummary(u Unit) Summary {
	return Summary{
		Attack:  BuffModifier(u, StatAttack),
		Defense: BuffModifier(u, StatDefense),
		Speed:   BuffModifier(u, StatSpeed),
	}
}
