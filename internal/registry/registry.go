package registry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finforge/internal/artifact"
	"finforge/internal/ledger"
	"finforge/internal/logger"
	"finforge/internal/shaper"
	"finforge/pkg"
)

// ErrUnknownGame is returned when a game id is not in the registry.
var ErrUnknownGame = errors.New("unknown game id")

// Entry is one fully loaded game: its config, artifacts, row shaper and
// resolved log path. Entries are immutable after Bootstrap and safe to
// share across concurrent requests.
type Entry struct {
	Config  pkg.GameConfig
	Model   artifact.Model
	Encoder *artifact.LabelEncoder // nil when the game has none
	Shaper  shaper.Shaper
	LogPath string
}

// Registry is the immutable game id -> Entry mapping, built once at
// startup and injected into every component that needs it.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

// Bootstrap loads every configured game's artifacts and prepares its log
// file. A required model that cannot be loaded aborts the whole startup: a
// game the process cannot serve must not be half-registered. A configured
// encoder that is missing at its path is treated as absent.
func Bootstrap(games []pkg.GameConfig, dataDir string, led *ledger.Ledger) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]*Entry, len(games)),
	}

	for _, cfg := range games {
		logger.Info().Str("game", cfg.ID).Str("name", cfg.Name).Msg("loading game")

		model, err := artifact.LoadModel(filepath.Join(dataDir, cfg.ModelPath))
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", cfg.ID, err)
		}

		var encoder *artifact.LabelEncoder
		if cfg.EncoderPath != "" {
			encPath := filepath.Join(dataDir, cfg.EncoderPath)
			if _, statErr := os.Stat(encPath); statErr == nil {
				encoder, err = artifact.LoadEncoder(encPath)
				if err != nil {
					return nil, fmt.Errorf("game %s: %w", cfg.ID, err)
				}
			} else {
				logger.Warn().Str("game", cfg.ID).Str("path", encPath).Msg("encoder artifact missing, continuing without")
			}
		}

		rowShaper, err := shaper.ForVariant(cfg.Variant)
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", cfg.ID, err)
		}

		logPath := filepath.Join(dataDir, cfg.CSVPath)
		if err := led.Ensure(logPath, cfg.Columns); err != nil {
			return nil, fmt.Errorf("game %s: %w", cfg.ID, err)
		}

		r.entries[cfg.ID] = &Entry{
			Config:  cfg,
			Model:   model,
			Encoder: encoder,
			Shaper:  rowShaper,
			LogPath: logPath,
		}
		r.order = append(r.order, cfg.ID)
	}

	return r, nil
}

// Get returns the entry for a game id.
func (r *Registry) Get(id string) (*Entry, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	return entry, nil
}

// IDs returns the registered game ids in configuration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
