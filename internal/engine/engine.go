package engine

import (
	"fmt"
	"math"

	"finforge/internal/artifact"
	"finforge/internal/logger"
	"finforge/pkg"
)

// ErrorLabel is the sentinel persisted and returned when a model or
// encoder fails. A broken single prediction must not break logging or the
// response to the caller.
const ErrorLabel = "prediction_error"

// Engine invokes a game's model on a feature vector and resolves the raw
// output into a label. Models are treated as untrusted black boxes: any
// error or panic they raise is contained here.
type Engine struct{}

// New creates a new prediction engine.
func New() *Engine {
	return &Engine{}
}

// Predict runs one model invocation. With an encoder the raw output is
// treated as a class index and decoded; without one, numeric output passes
// through as float64 and anything else as a string. Every failure path
// yields the sentinel label with Failed set.
func (e *Engine) Predict(gameID string, model artifact.Model, encoder *artifact.LabelEncoder, vec pkg.FeatureVector) (pred pkg.Prediction) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Str("game", gameID).
				Any("panic", r).
				Msg("model invocation panicked")
			pred = pkg.Prediction{Label: ErrorLabel, Failed: true}
		}
	}()

	raw, err := model.Predict(vec.Values)
	if err != nil {
		logger.Warn().
			Str("game", gameID).
			Err(err).
			Msg("prediction failed")
		return pkg.Prediction{Label: ErrorLabel, Failed: true}
	}

	if encoder != nil {
		index, err := classIndex(raw)
		if err == nil {
			var label string
			label, err = encoder.Decode(index)
			if err == nil {
				return pkg.Prediction{Label: label}
			}
		}
		logger.Warn().
			Str("game", gameID).
			Err(err).
			Msg("label decoding failed")
		return pkg.Prediction{Label: ErrorLabel, Failed: true}
	}

	switch v := raw.(type) {
	case float64:
		return pkg.Prediction{Label: v}
	case float32:
		return pkg.Prediction{Label: float64(v)}
	case int:
		return pkg.Prediction{Label: float64(v)}
	case int64:
		return pkg.Prediction{Label: float64(v)}
	case string:
		return pkg.Prediction{Label: v}
	default:
		return pkg.Prediction{Label: fmt.Sprint(v)}
	}
}

// classIndex interprets raw model output as an integer class index.
func classIndex(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("class index is not finite: %v", v)
		}
		return int(v), nil
	case float32:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("raw output %T cannot be used as a class index", raw)
	}
}
