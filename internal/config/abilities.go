package config

type AbilitiesConfig struct {
	Abilities []AbilityDef `yaml:"abilities"`
}

type AbilityDef struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Power    int       `yaml:"power"`
	Priority int       `yaml:"priority"`
	Effect   EffectDef `yaml:"effect"`
	Note     string    `yaml:"note"`
}

type EffectDef struct {
	Kind      string `yaml:"kind"` // buff | debuff | heal | cleanse
	Stat      string `yaml:"stat"` // attack | defense | speed
	Magnitude int    `yaml:"magnitude"`
	Duration  int    `yaml:"duration"`
}
