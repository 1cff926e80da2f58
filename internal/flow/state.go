// Package flow is the game's macro-state machine: menu, selection, battle,
// resolution, and back around for the next fight.
package flow

// State is one macro-phase of a run.
type State string

const (
	StateMenu           State = "menu"
	StateStarterSelect  State = "starter_select"
	StateOpponentSelect State = "opponent_select"
	StateTeamPrep       State = "team_prep"
	StateBattle         State = "battle"
	StateRewards        State = "rewards"
	StateRecruit        State = "recruit"
	StateDefeat         State = "defeat"
)

// States lists every known state.
var States = []State{
	StateMenu,
	StateStarterSelect,
	StateOpponentSelect,
	StateTeamPrep,
	StateBattle,
	StateRewards,
	StateRecruit,
	StateDefeat,
}

// transitions is the static legal-move table. There is no terminal state:
// defeat leads back to menu and rewards loops to the next opponent.
var transitions = map[State][]State{
	StateMenu:           {StateStarterSelect},
	StateStarterSelect:  {StateOpponentSelect, StateMenu},
	StateOpponentSelect: {StateTeamPrep, StateMenu},
	StateTeamPrep:       {StateBattle, StateOpponentSelect},
	StateBattle:         {StateRewards, StateDefeat},
	StateRewards:        {StateRecruit, StateOpponentSelect},
	StateRecruit:        {StateOpponentSelect},
	StateDefeat:         {StateMenu},
}

// Valid reports whether s is a member of the enumeration.
func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s State) String() string { return string(s) }

// ParseState maps a stored label back to a State.
func ParseState(v string) (State, bool) {
	s := State(v)
	if !s.Valid() {
		return "", false
	}
	return s, true
}

// IsTransitionAllowed reports whether the table permits from -> to.
func IsTransitionAllowed(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
