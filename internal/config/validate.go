package config

import (
	"fmt"
	"strings"

	apperrors "roguecore/internal/errors"
)

var (
	knownStats   = map[string]bool{"attack": true, "defense": true, "speed": true}
	knownEffects = map[string]bool{"": true, "buff": true, "debuff": true, "heal": true, "cleanse": true}
)

func invalid(format string, args ...any) error {
	return apperrors.New(apperrors.CodeConfigInvalid, fmt.Sprintf(format, args...))
}

// Validate checks a loaded config. The seed is checked at this boundary so
// the generator never sees an empty seed.
func Validate(rc *RunConfig, ac *AbilitiesConfig) error {
	if rc == nil {
		return invalid("run config is required")
	}
	if strings.TrimSpace(rc.Seed) == "" {
		return invalid("seed must not be empty")
	}
	if rc.MaxTurns < 0 {
		return invalid("max_turns must be >= 0")
	}
	seenStream := map[string]bool{}
	for _, s := range rc.Streams {
		if strings.TrimSpace(s) == "" {
			return invalid("streams: empty label")
		}
		if seenStream[s] {
			return invalid("streams: duplicate label %q", s)
		}
		seenStream[s] = true
	}
	if len(rc.Allies) == 0 || len(rc.Enemies) == 0 {
		return invalid("both allies and enemies need at least one unit")
	}

	abilities := map[string]bool{}
	if ac != nil {
		for _, a := range ac.Abilities {
			if a.ID == "" {
				return invalid("abilities: missing id")
			}
			if abilities[a.ID] {
				return invalid("abilities: duplicate id %q", a.ID)
			}
			abilities[a.ID] = true
			if !knownEffects[a.Effect.Kind] {
				return invalid("ability %s: unknown effect kind %q", a.ID, a.Effect.Kind)
			}
			if (a.Effect.Kind == "buff" || a.Effect.Kind == "debuff") && !knownStats[a.Effect.Stat] {
				return invalid("ability %s: unknown stat %q", a.ID, a.Effect.Stat)
			}
			if a.Effect.Duration < 0 {
				return invalid("ability %s: duration must be >= 0", a.ID)
			}
		}
	}

	seenUnit := map[string]bool{}
	for _, team := range [][]UnitDef{rc.Allies, rc.Enemies} {
		for _, u := range team {
			if u.ID == "" {
				return invalid("unit: missing id")
			}
			if seenUnit[u.ID] {
				return invalid("unit: duplicate id %q", u.ID)
			}
			seenUnit[u.ID] = true
			if u.MaxHP < 0 {
				return invalid("unit %s: max_hp must be >= 0", u.ID)
			}
			for _, id := range u.Abilities {
				if !abilities[id] {
					return invalid("unit %s: unknown ability %q", u.ID, id)
				}
			}
		}
	}
	return nil
}
