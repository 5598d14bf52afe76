package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"finforge/internal/engine"
	"finforge/internal/feature"
	"finforge/internal/ledger"
	"finforge/internal/logger"
	"finforge/internal/registry"
	"finforge/internal/session"
	"finforge/internal/shaper"
	"finforge/pkg"
)

// GuestUser is recorded when the caller supplies no user id.
const GuestUser = "guest"

// Dispatcher runs the predict-and-persist pipeline for one request:
// extract features, invoke the model, shape the row, append it to the
// game's ledger. Only an unknown game id aborts; every other failure is
// absorbed into a degraded-but-logged result.
type Dispatcher struct {
	registry *registry.Registry
	engine   *engine.Engine
	ledger   *ledger.Ledger
	sessions session.Tracker
}

// New creates a dispatcher over a loaded registry.
func New(reg *registry.Registry, eng *engine.Engine, led *ledger.Ledger, sessions session.Tracker) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		engine:   eng,
		ledger:   led,
		sessions: sessions,
	}
}

// Run executes one prediction for a game. The session id is taken from
// the payload or freshly generated; the user id defaults to guest.
func (d *Dispatcher) Run(ctx context.Context, gameID string, payload map[string]any) (*pkg.PredictOutcome, error) {
	start := time.Now()

	entry, err := d.registry.Get(gameID)
	if err != nil {
		return nil, err
	}
	cfg := entry.Config

	userID := stringField(payload, "user_id", GuestUser)
	sessionID := stringField(payload, "session_id", "")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	vec := feature.Extract(cfg, payload)
	pred := d.engine.Predict(cfg.ID, entry.Model, entry.Encoder, vec)

	row := entry.Shaper.Shape(cfg, shaper.Base{
		UserID:    userID,
		SessionID: sessionID,
		Vector:    vec,
	}, pred, payload)

	if err := d.ledger.Append(entry.LogPath, cfg.Columns, row); err != nil {
		return nil, fmt.Errorf("game %s: %w", cfg.ID, err)
	}

	// Best-effort session tracking; never fails the request.
	if d.sessions != nil {
		if err := d.sessions.Touch(ctx, sessionID, userID, cfg.ID); err != nil {
			logger.Warn().Str("game", cfg.ID).Err(err).Msg("session tracking failed")
		}
	}

	logger.Info().
		Str("game", cfg.ID).
		Str("session_id", sessionID).
		Str("prediction", pred.String()).
		Dur("elapsed", time.Since(start)).
		Msg("prediction saved")

	return &pkg.PredictOutcome{
		Game:       cfg.Name,
		SessionID:  sessionID,
		Prediction: pred.Label,
		Status:     "saved",
	}, nil
}

// stringField reads a payload value as a string, with a default for
// missing or empty values. Non-string scalars are stringified so callers
// sending numeric ids still get stable values back.
func stringField(payload map[string]any, key, def string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return def
	}
	s := fmt.Sprint(v)
	if s == "" {
		return def
	}
	return s
}
