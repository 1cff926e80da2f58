package combat

type Event struct {
	Turn    int            `json:"turn"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Stat is a combat stat a buff can modify.
type Stat string

const (
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
	StatSpeed   Stat = "speed"
)

// Stats lists the tracked stats in display order.
var Stats = []Stat{StatAttack, StatDefense, StatSpeed}

func (s Stat) Valid() bool {
	switch s {
	case StatAttack, StatDefense, StatSpeed:
		return true
	}
	return false
}

type BaseStats struct {
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

func (b BaseStats) Get(s Stat) int {
	switch s {
	case StatAttack:
		return b.Attack
	case StatDefense:
		return b.Defense
	case StatSpeed:
		return b.Speed
	}
	return 0
}

// Unit is a combatant. It is a value type; ledger operations return a new Unit.
type Unit struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Team      string    `json:"team"`
	HP        int       `json:"hp"`
	MaxHP     int       `json:"max_hp"`
	Base      BaseStats `json:"base"`
	Abilities []string  `json:"abilities,omitempty"`
	Buffs     []Buff    `json:"buffs,omitempty"`
}

func (u Unit) Alive() bool { return u.HP > 0 }

func NewUnit(id, team string, maxHP int, base BaseStats) Unit {
	return Unit{ID: id, Name: id, Team: team, HP: maxHP, MaxHP: maxHP, Base: base}
}
