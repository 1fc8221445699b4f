package config

import (
	"fmt"
	"strings"

	"github.com/mwhiting/hexfront/internal/battle"
)

// LoadPersonality reads and validates a personality profile file.
func LoadPersonality(path string) (battle.Personality, error) {
	p := battle.DefaultPersonality()
	if err := loadValidated(path, personalitySchema, &p); err != nil {
		return battle.Personality{}, err
	}
	return p, nil
}

// ParsePersonality validates and decodes an in-memory profile.
func ParsePersonality(data []byte) (battle.Personality, error) {
	p := battle.DefaultPersonality()
	if err := decodeValidated(data, personalitySchema, &p, "personality"); err != nil {
		return battle.Personality{}, err
	}
	return p, nil
}

// ResolvePersonality maps a scenario's personality reference to a
// profile: a built-in name, or a path to a YAML file. An empty
// reference yields the balanced default.
func ResolvePersonality(ref string) (battle.Personality, error) {
	switch ref {
	case "", "balanced":
		return battle.DefaultPersonality(), nil
	case "aggressive":
		return battle.AggressivePersonality(), nil
	case "cautious":
		return battle.CautiousPersonality(), nil
	}
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") {
		return LoadPersonality(ref)
	}
	return battle.Personality{}, fmt.Errorf("unknown personality %q", ref)
}
