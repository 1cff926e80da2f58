package combat

import (
	"sort"

	"roguecore/internal/config"
)

// UnitsFromConfig builds fresh, unbuffed units for one team.
func UnitsFromConfig(team string, defs []config.UnitDef) []Unit {
	out := make([]Unit, 0, len(defs))
	for _, d := range defs {
		u := NewUnit(d.ID, team, d.MaxHP, BaseStats{Attack: d.Attack, Defense: d.Defense, Speed: d.Speed})
		if d.Name != "" {
			u.Name = d.Name
		}
		u.Abilities = append([]string(nil), d.Abilities...)
		out = append(out, u)
	}
	return out
}

func teamAlive(units []Unit, team string) bool {
	for _, u := range units {
		if u.Team == team && u.Alive() {
			return true
		}
	}
	return false
}

// turnOrder returns indices of living units, fastest effective speed first;
// ties break on id so the order never depends on slice position.
func turnOrder(units []Unit) []int {
	var idx []int
	for i, u := range units {
		if u.Alive() {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ua, ub := units[idx[a]], units[idx[b]]
		sa, sb := EffectiveStat(ua, StatSpeed), EffectiveStat(ub, StatSpeed)
		if sa != sb {
			return sa > sb
		}
		return ua.ID < ub.ID
	})
	return idx
}

// opponents lists living units not on team, in slice order.
func opponents(units []Unit, team string) []int {
	var out []int
	for i, u := range units {
		if u.Team != team && u.Alive() {
			out = append(out, i)
		}
	}
	return out
}
