package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings. Command-line flags override these.
type Env struct {
	ConfigDir string `env:"ROGUECORE_CONFIG_DIR" envDefault:"assets"`
	Seed      string `env:"ROGUECORE_SEED"`
	Out       string `env:"ROGUECORE_OUT" envDefault:"out.json"`
	SaveDB    string `env:"ROGUECORE_SAVE_DB"`
	Workers   int    `env:"ROGUECORE_WORKERS" envDefault:"8"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}
