// Package session drives one roguelike run: it owns the flow machine and the
// run's streams and hands each battle its own deterministic registry.
package session

import (
	"fmt"
	"io"
	"log"

	"roguecore/internal/combat"
	"roguecore/internal/config"
	"roguecore/internal/flow"
	"roguecore/internal/store"
	"roguecore/internal/util"
)

// BattleReport is what one fight produced.
type BattleReport struct {
	Index  int                 `json:"index"`
	Result combat.BattleResult `json:"result"`
	Gold   int                 `json:"gold,omitempty"`
	State  flow.State          `json:"state"`
}

type Session struct {
	Seed    string
	Streams *util.Streams
	Flow    *flow.Machine
	Battles int

	run  *config.RunConfig
	book *combat.AbilityBook
	log  *log.Logger
}

// New builds a session from config. The seed is parsed here, at the boundary.
func New(rc *config.RunConfig, ac *config.AbilitiesConfig, logger *log.Logger) (*Session, error) {
	seed, err := util.ParseSeed(rc.Seed)
	if err != nil {
		return nil, err
	}
	return NewWithRoot(util.New(seed, "root"), rc, ac, logger)
}

// NewWithRoot builds a session over an existing root generator; batch runs
// pass a per-run fork so results do not depend on scheduling.
func NewWithRoot(root *util.Rand, rc *config.RunConfig, ac *config.AbilitiesConfig, logger *log.Logger) (*Session, error) {
	streams, err := util.NewStreams(root, rc.Streams...)
	if err != nil {
		return nil, err
	}
	for _, need := range []string{"battle", "loot", "map"} {
		if _, err := streams.Get(need); err != nil {
			return nil, fmt.Errorf("session streams: %w", err)
		}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{
		Seed:    rc.Seed,
		Streams: streams,
		Flow:    flow.New(),
		run:     rc,
		book:    combat.NewAbilityBook(ac),
		log:     logger,
	}, nil
}

// Resume restores a saved slot. Streams are rebuilt from the slot's seed and
// each battle forks by index, so the next fight matches the original run.
func Resume(slot *store.Slot, rc *config.RunConfig, ac *config.AbilitiesConfig, logger *log.Logger) (*Session, error) {
	cfg := *rc
	cfg.Seed = slot.Seed
	s, err := New(&cfg, ac, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Flow.Deserialize(slot.Snapshot); err != nil {
		return nil, err
	}
	s.Battles = slot.Battles
	return s, nil
}

func (s *Session) to(states ...flow.State) error {
	for _, st := range states {
		if err := s.Flow.TransitionTo(st); err != nil {
			return err
		}
		s.log.Printf("flow %s", st)
	}
	return nil
}

// Advance walks the machine to team_prep from wherever the run stands.
func (s *Session) Advance() error {
	switch s.Flow.State() {
	case flow.StateMenu:
		return s.to(flow.StateStarterSelect, flow.StateOpponentSelect, flow.StateTeamPrep)
	case flow.StateStarterSelect, flow.StateRecruit:
		return s.to(flow.StateOpponentSelect, flow.StateTeamPrep)
	case flow.StateRewards:
		return s.to(flow.StateRecruit, flow.StateOpponentSelect, flow.StateTeamPrep)
	case flow.StateOpponentSelect:
		return s.to(flow.StateTeamPrep)
	case flow.StateTeamPrep:
		return nil
	case flow.StateDefeat:
		s.Flow.Reset()
		return s.Advance()
	}
	return fmt.Errorf("cannot advance from %s", s.Flow.State())
}

// Fight runs the next battle. A loss resets the run to menu.
func (s *Session) Fight(record bool) (BattleReport, error) {
	if err := s.Advance(); err != nil {
		return BattleReport{}, err
	}
	if err := s.to(flow.StateBattle); err != nil {
		return BattleReport{}, err
	}
	idx := s.Battles
	s.Battles++

	label := fmt.Sprintf("battle:%d", idx)
	battleStreams, err := util.NewStreams(s.Streams.MustGet("battle").Fork(label))
	if err != nil {
		return BattleReport{}, err
	}
	env, err := combat.NewEnv(battleStreams, s.run.MaxTurns)
	if err != nil {
		return BattleReport{}, err
	}
	allies := combat.UnitsFromConfig(combat.TeamAllies, s.run.Allies)
	enemies := combat.UnitsFromConfig(combat.TeamEnemies, s.run.Enemies)
	util.Shuffle(s.Streams.MustGet("map").Fork(label), enemies)

	res := combat.RunBattle(env, allies, enemies, s.book, record)
	report := BattleReport{Index: idx, Result: res}
	if res.Win {
		report.Gold = s.Streams.MustGet("loot").Fork(label).Int(5, 20)
		if err := s.to(flow.StateRewards); err != nil {
			return BattleReport{}, err
		}
		s.log.Printf("battle %d won in %d turns, gold %d", idx, res.Turns, report.Gold)
	} else {
		if err := s.to(flow.StateDefeat); err != nil {
			return BattleReport{}, err
		}
		s.log.Printf("battle %d lost after %d turns", idx, res.Turns)
	}
	report.State = s.Flow.State()
	return report, nil
}

// Save writes the run to a slot. Passing an existing slot id overwrites it.
func (s *Session) Save(st store.Store, id, label string) (*store.Slot, error) {
	snap, err := s.Flow.Serialize()
	if err != nil {
		return nil, err
	}
	slot := &store.Slot{ID: id, Label: label, Seed: s.Seed, Snapshot: snap, Battles: s.Battles}
	if err := st.SaveSlot(slot); err != nil {
		return nil, err
	}
	return slot, nil
}
