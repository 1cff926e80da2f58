package flow

import (
	"encoding/json"
	"fmt"

	apperrors "roguecore/internal/errors"
)

var (
	// ErrIllegalTransition matches any rejected transition.
	ErrIllegalTransition = apperrors.New(apperrors.CodeFlowIllegalTransition, "state transition is not allowed")
	// ErrMalformedSnapshot matches any rejected snapshot.
	ErrMalformedSnapshot = apperrors.New(apperrors.CodeFlowSnapshotMalformed, "state snapshot is malformed")
	// ErrNoPreviousState is returned by Back on an empty history.
	ErrNoPreviousState = apperrors.New(apperrors.CodeFlowNoPreviousState, "no previous state")
)

// Snapshot is the persisted form of a Machine.
type Snapshot struct {
	Current State   `json:"current"`
	History []State `json:"history"`
}

// Machine tracks the current macro-state and the states it came through.
// A Machine has a single owner and is not safe for concurrent use.
type Machine struct {
	current State
	history []State
}

func New() *Machine {
	return &Machine{current: StateMenu}
}

func (m *Machine) State() State { return m.current }

// History returns a copy of the recorded states, oldest first.
func (m *Machine) History() []State {
	return append([]State{}, m.history...)
}

func (m *Machine) CanTransitionTo(next State) bool {
	return IsTransitionAllowed(m.current, next)
}

// AllowedNext lists the states reachable from the current one.
func (m *Machine) AllowedNext() []State {
	return append([]State(nil), transitions[m.current]...)
}

// TransitionTo moves to next, recording the current state in history. An
// illegal move returns an error and leaves the machine unchanged.
func (m *Machine) TransitionTo(next State) error {
	if !m.CanTransitionTo(next) {
		return apperrors.WithMetadata(apperrors.CodeFlowIllegalTransition,
			fmt.Sprintf("illegal transition %s -> %s", m.current, next),
			map[string]string{"from": string(m.current), "to": string(next)})
	}
	m.history = append(m.history, m.current)
	m.current = next
	return nil
}

// Back transitions to the previous state when the table allows it.
func (m *Machine) Back() error {
	prev, ok := m.PreviousState()
	if !ok {
		return ErrNoPreviousState
	}
	return m.TransitionTo(prev)
}

// Reset returns to menu and drops the run's history (permadeath restart).
func (m *Machine) Reset() {
	m.current = StateMenu
	m.history = nil
}

func (m *Machine) PreviousState() (State, bool) {
	if len(m.history) == 0 {
		return "", false
	}
	return m.history[len(m.history)-1], true
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{Current: m.current, History: m.History()}
}

func (m *Machine) Serialize() (string, error) {
	b, err := json.Marshal(m.Snapshot())
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(b), nil
}

// Deserialize replaces the machine's state with the snapshot in data. On any
// error the machine keeps its prior state and history.
func (m *Machine) Deserialize(data string) error {
	var snap Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return apperrors.Wrap(apperrors.CodeFlowSnapshotMalformed, "decode snapshot", err)
	}
	if err := snap.Validate(); err != nil {
		return err
	}
	m.current = snap.Current
	m.history = append([]State{}, snap.History...)
	return nil
}

// Validate checks that every state is known and that the history chain,
// followed by current, only uses legal transitions.
func (s Snapshot) Validate() error {
	malformed := func(format string, args ...any) error {
		return apperrors.New(apperrors.CodeFlowSnapshotMalformed, fmt.Sprintf(format, args...))
	}
	if !s.Current.Valid() {
		return malformed("unknown current state %q", s.Current)
	}
	for i, st := range s.History {
		if !st.Valid() {
			return malformed("unknown state %q at history[%d]", st, i)
		}
	}
	if len(s.History) > 0 && s.History[0] != StateMenu {
		return malformed("history must start at %s, got %s", StateMenu, s.History[0])
	}
	if len(s.History) == 0 && s.Current != StateMenu {
		return malformed("empty history requires %s, got %s", StateMenu, s.Current)
	}
	chain := append(append([]State{}, s.History...), s.Current)
	for i := 1; i < len(chain); i++ {
		if !IsTransitionAllowed(chain[i-1], chain[i]) {
			return malformed("history step %s -> %s is not a legal transition", chain[i-1], chain[i])
		}
	}
	return nil
}
