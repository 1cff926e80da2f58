package combat

import (
	"sort"

	"roguecore/internal/config"
)

type EffectKind string

const (
	EffectNone    EffectKind = ""
	EffectBuff    EffectKind = "buff"   // applies to the caster
	EffectDebuff  EffectKind = "debuff" // applies to the target
	EffectHeal    EffectKind = "heal"
	EffectCleanse EffectKind = "cleanse"
)

func (k EffectKind) IsBuff() bool { return k == EffectBuff || k == EffectDebuff }

type Effect struct {
	Kind      EffectKind
	Stat      Stat
	Magnitude int
	Duration  int
}

// SignedMagnitude forces debuffs negative so a config can list them either way.
func (e Effect) SignedMagnitude() int {
	if e.Kind == EffectDebuff && e.Magnitude > 0 {
		return -e.Magnitude
	}
	return e.Magnitude
}

type Ability struct {
	ID       string
	Name     string
	Power    int
	Priority int
	Effect   Effect
}

var basicAttack = Ability{ID: "basic.attack", Name: "Attack", Power: 10}

type AbilityBook struct {
	byID map[string]Ability
}

func NewAbilityBook(cfg *config.AbilitiesConfig) *AbilityBook {
	ab := &AbilityBook{byID: map[string]Ability{basicAttack.ID: basicAttack}}
	if cfg == nil {
		return ab
	}
	for _, a := range cfg.Abilities {
		name := a.Name
		if name == "" {
			name = a.ID
		}
		ab.byID[a.ID] = Ability{
			ID:       a.ID,
			Name:     name,
			Power:    a.Power,
			Priority: a.Priority,
			Effect: Effect{
				Kind:      EffectKind(a.Effect.Kind),
				Stat:      Stat(a.Effect.Stat),
				Magnitude: a.Effect.Magnitude,
				Duration:  a.Effect.Duration,
			},
		}
	}
	return ab
}

func (ab *AbilityBook) Get(id string) (Ability, bool) {
	if ab == nil {
		return Ability{}, false
	}
	a, ok := ab.byID[id]
	return a, ok
}

// For resolves a unit's ability list; units without a usable list get the
// basic attack. Ordering is by priority then id so AI picks are stable.
func (ab *AbilityBook) For(u Unit) []Ability {
	var out []Ability
	for _, id := range u.Abilities {
		if a, ok := ab.Get(id); ok {
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return []Ability{basicAttack}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}
