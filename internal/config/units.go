package config

type RunConfig struct {
	Seed     string    `yaml:"seed"`
	MaxTurns int       `yaml:"max_turns"`
	Streams  []string  `yaml:"streams"`
	Allies   []UnitDef `yaml:"allies"`
	Enemies  []UnitDef `yaml:"enemies"`
	Note     string    `yaml:"note"`
}

type UnitDef struct {
	ID        string   `yaml:"id"`
	Name      string   `yaml:"name"`
	MaxHP     int      `yaml:"max_hp"`
	Attack    int      `yaml:"attack"`
	Defense   int      `yaml:"defense"`
	Speed     int      `yaml:"speed"`
	Abilities []string `yaml:"abilities"`
	Note      string   `yaml:"note"`
}
