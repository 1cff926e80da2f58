package combat

import (
	"encoding/json"
	"fmt"

	"roguecore/internal/util"
)

const (
	TeamAllies  = "allies"
	TeamEnemies = "enemies"

	// CritChance and CritMul shape the battle stream's critical rolls.
	CritChance = 0.1
	CritMul    = 1.5
)

// Env carries the per-battle streams. Battle rolls, AI picks and buff ids
// each come from their own stream so one never perturbs another.
type Env struct {
	Turn     int
	MaxTurns int
	Battle   *util.Rand
	AI       *util.Rand
	Ledger   *Ledger
}

// NewEnv wires the streams a battle consumes out of a registry.
func NewEnv(streams *util.Streams, maxTurns int) (*Env, error) {
	battle, err := streams.Get("battle")
	if err != nil {
		return nil, err
	}
	ai, err := streams.Get("ai")
	if err != nil {
		return nil, err
	}
	effects, err := streams.Get("effects")
	if err != nil {
		return nil, err
	}
	return &Env{MaxTurns: maxTurns, Battle: battle, AI: ai, Ledger: NewLedger(effects)}, nil
}

type BattleResult struct {
	Win          bool           `json:"win"`
	Turns        int            `json:"turns"`
	Events       []Event        `json:"events,omitempty"`
	DamageByUnit map[string]int `json:"damage_by_unit"`
	Survivors    []Unit         `json:"survivors"`
}

// RunBattle resolves a battle turn by turn until one side is down or MaxTurns
// is reached. Allies win only by defeating every enemy.
func RunBattle(env *Env, allies, enemies []Unit, book *AbilityBook, record bool) BattleResult {
	var events []Event

	// ---- Helpers ----
	emit := func(ev Event) {
		if record {
			events = append(events, ev)
		}
	}
	logLine := func(id, format string, args ...any) {
		if !record {
			return
		}
		payload := map[string]any{"text": fmt.Sprintf(format, args...)}
		if id != "" {
			payload["id"] = id
		}
		emit(Event{Turn: env.Turn, Type: "LogLine", Payload: payload})
	}

	// ---- Spawn ----
	units := make([]Unit, 0, len(allies)+len(enemies))
	for _, u := range allies {
		u.Team = TeamAllies
		units = append(units, u)
	}
	for _, u := range enemies {
		u.Team = TeamEnemies
		units = append(units, u)
	}
	damage := map[string]int{}

	for _, u := range units {
		emit(Event{Turn: 0, Type: "Spawn", Payload: map[string]any{
			"id": u.ID, "team": u.Team, "hp": u.HP, "max_hp": u.MaxHP,
		}})
	}

	// ---- Turn loop ----
	maxTurns := env.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 30
	}
	for env.Turn = 1; env.Turn <= maxTurns; env.Turn++ {
		for _, i := range turnOrder(units) {
			actor := units[i]
			if !actor.Alive() {
				continue
			}
			targets := opponents(units, actor.Team)
			if len(targets) == 0 {
				break
			}
			ab := util.Choose(env.AI, book.For(actor))
			ti := util.Choose(env.AI, targets)
			target := units[ti]

			emit(Event{Turn: env.Turn, Type: "Cast", Payload: map[string]any{
				"caster": actor.ID, "ability": ab.ID, "target": target.ID,
			}})

			switch ab.Effect.Kind {
			case EffectBuff:
				actor = env.Ledger.ApplyBuff(actor, ab, ab.Effect.Duration)
				logLine(actor.ID, "%s gains %+d %s for %d turns from %s",
					actor.Name, ab.Effect.SignedMagnitude(), ab.Effect.Stat, ab.Effect.Duration, ab.Name)
			case EffectDebuff:
				target = env.Ledger.ApplyBuff(target, ab, ab.Effect.Duration)
				logLine(target.ID, "%s suffers %+d %s for %d turns from %s",
					target.Name, ab.Effect.SignedMagnitude(), ab.Effect.Stat, ab.Effect.Duration, ab.Name)
			case EffectHeal:
				actor.HP += ab.Effect.Magnitude
				if actor.HP > actor.MaxHP {
					actor.HP = actor.MaxHP
				}
				logLine(actor.ID, "%s heals to %d", actor.Name, actor.HP)
			case EffectCleanse:
				actor = RemoveAllBuffs(actor)
				logLine(actor.ID, "%s is cleansed", actor.Name)
			}

			if ab.Power > 0 {
				dmg := rollDamage(env.Battle, ab, actor, target)
				target.HP -= dmg
				if target.HP < 0 {
					target.HP = 0
				}
				damage[actor.ID] += dmg
				emit(Event{Turn: env.Turn, Type: "Hit", Payload: map[string]any{
					"caster": actor.ID, "target": target.ID, "dmg": dmg, "hp": target.HP,
				}})
				logLine(actor.ID, "%s hits %s with %s for %d (HP %d)", actor.Name, target.Name, ab.Name, dmg, target.HP)
				if !target.Alive() {
					emit(Event{Turn: env.Turn, Type: "Defeated", Payload: map[string]any{"id": target.ID}})
				}
			}
			units[i] = actor
			units[ti] = target
		}

		// turn boundary: every unit decays, living or not
		units = DecayAllBuffs(units)
		if !teamAlive(units, TeamAllies) || !teamAlive(units, TeamEnemies) {
			break
		}
	}
	turns := env.Turn
	if turns > maxTurns {
		turns = maxTurns
	}

	var survivors []Unit
	for _, u := range units {
		if u.Alive() {
			survivors = append(survivors, u)
		}
	}
	res := BattleResult{
		Win:          teamAlive(units, TeamAllies) && !teamAlive(units, TeamEnemies),
		Turns:        turns,
		DamageByUnit: damage,
		Survivors:    survivors,
	}
	if record {
		res.Events = events
	}
	return res
}

// rollDamage uses two battle-stream draws: variance, then crit.
func rollDamage(rng *util.Rand, ab Ability, actor, target Unit) int {
	variance := rng.Int(-2, 2)
	dmg := ab.Power + EffectiveStat(actor, StatAttack) - EffectiveStat(target, StatDefense) + variance
	if rng.Bool(CritChance) {
		dmg = int(float64(dmg) * CritMul)
	}
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
