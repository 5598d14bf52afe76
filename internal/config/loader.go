package config

import (
	"fmt"
	"os"

	"finforge/pkg"

	"gopkg.in/yaml.v3"
)

// GamesFile represents the structure of games.yaml
type GamesFile struct {
	Games []pkg.GameConfig `yaml:"games"`
}

// LoadGames loads and validates the game registry file.
func LoadGames(filepath string) ([]pkg.GameConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("error reading games file: %w", err)
	}

	var file GamesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	if len(file.Games) == 0 {
		return nil, fmt.Errorf("games file %s declares no games", filepath)
	}

	seen := make(map[string]bool, len(file.Games))
	for i := range file.Games {
		if err := validateGame(&file.Games[i]); err != nil {
			return nil, fmt.Errorf("game %d: %w", i, err)
		}
		if seen[file.Games[i].ID] {
			return nil, fmt.Errorf("duplicate game id: %s", file.Games[i].ID)
		}
		seen[file.Games[i].ID] = true
	}

	return file.Games, nil
}

// validateGame checks one game entry for the invariants the pipeline
// relies on: a stable id, a model artifact, a feature order and a column
// schema that contains the base fields plus every feature.
func validateGame(g *pkg.GameConfig) error {
	if g.ID == "" {
		return fmt.Errorf("game id cannot be empty")
	}
	if g.Name == "" {
		return fmt.Errorf("game %s: name cannot be empty", g.ID)
	}
	if g.ModelPath == "" {
		return fmt.Errorf("game %s: model_path cannot be empty", g.ID)
	}
	if g.CSVPath == "" {
		return fmt.Errorf("game %s: csv_path cannot be empty", g.ID)
	}
	if len(g.Features) == 0 {
		return fmt.Errorf("game %s: features cannot be empty", g.ID)
	}
	if len(g.Columns) == 0 {
		return fmt.Errorf("game %s: columns cannot be empty", g.ID)
	}

	cols := make(map[string]bool, len(g.Columns))
	for _, c := range g.Columns {
		cols[c] = true
	}
	for _, base := range []string{"user_id", "session_id"} {
		if !cols[base] {
			return fmt.Errorf("game %s: columns must include %s", g.ID, base)
		}
	}
	for _, f := range g.Features {
		if !cols[f] {
			return fmt.Errorf("game %s: feature %s missing from columns", g.ID, f)
		}
	}

	return nil
}
