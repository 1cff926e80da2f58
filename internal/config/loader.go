package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	RunFile       = "run.yaml"
	AbilitiesFile = "abilities.yaml"

	defaultMaxTurns = 30
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadAll reads run.yaml and abilities.yaml from dir. abilities.yaml is
// optional; units then fall back to the basic attack.
func LoadAll(dir string) (*RunConfig, *AbilitiesConfig, error) {
	var rc RunConfig
	var ac AbilitiesConfig
	if err := loadYAML(filepath.Join(dir, RunFile), &rc); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", RunFile, err)
	}
	if err := loadYAML(filepath.Join(dir, AbilitiesFile), &ac); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("load %s: %w", AbilitiesFile, err)
	}
	applyDefaults(&rc)
	if err := Validate(&rc, &ac); err != nil {
		return nil, nil, err
	}
	return &rc, &ac, nil
}

func applyDefaults(rc *RunConfig) {
	if rc.MaxTurns == 0 {
		rc.MaxTurns = defaultMaxTurns
	}
	for _, team := range [][]UnitDef{rc.Allies, rc.Enemies} {
		for i := range team {
			if team[i].Name == "" {
				team[i].Name = team[i].ID
			}
			if team[i].MaxHP == 0 {
				team[i].MaxHP = 100
			}
		}
	}
}
