package shaper

import (
	"fmt"
	"strconv"

	"finforge/pkg"
)

// Base carries the fields every game variant persists: caller identity,
// session, and the coerced feature values under their original names.
type Base struct {
	UserID    string
	SessionID string
	Vector    pkg.FeatureVector
}

// Shaper assembles the ledger row for one game variant. The variant set is
// closed: adding a game means picking one of these shapes or adding a new
// implementation here.
type Shaper interface {
	Shape(cfg pkg.GameConfig, base Base, pred pkg.Prediction, payload map[string]any) pkg.OutputRow
}

// ForVariant returns the shaper for a configured variant name.
func ForVariant(variant string) (Shaper, error) {
	switch variant {
	case "classification":
		return classificationShaper{}, nil
	case "computation":
		return computationShaper{}, nil
	case "telemetry":
		return telemetryShaper{}, nil
	default:
		return nil, fmt.Errorf("unknown game variant: %q", variant)
	}
}

// baseRow fills the fields shared by all variants.
func baseRow(base Base) pkg.OutputRow {
	row := pkg.OutputRow{
		"user_id":    base.UserID,
		"session_id": base.SessionID,
	}
	for i, name := range base.Vector.Names {
		row[name] = strconv.FormatFloat(base.Vector.Values[i], 'f', -1, 64)
	}
	return row
}

// classificationShaper persists the supplied ground truth next to the
// prediction plus a correctness flag. The flag is a strict string
// comparison: callers must send ground truth in the same representation
// the encoder produces.
type classificationShaper struct{}

func (classificationShaper) Shape(cfg pkg.GameConfig, base Base, pred pkg.Prediction, payload map[string]any) pkg.OutputRow {
	row := baseRow(base)
	truth := stringify(payload["ground_truth_type"], "")
	row["ground_truth_type"] = truth
	row["prediction"] = pred.String()
	if truth == pred.String() {
		row["correct"] = "1"
	} else {
		row["correct"] = "0"
	}
	return row
}

// computationShaper persists caller-computed derived fields verbatim. The
// server does not recompute them; the model's own score is available to
// the caller but not written. Derived columns are whatever remains of the
// schema after the base fields, defaulting to 0 when absent.
type computationShaper struct{}

func (computationShaper) Shape(cfg pkg.GameConfig, base Base, pred pkg.Prediction, payload map[string]any) pkg.OutputRow {
	row := baseRow(base)
	for _, col := range cfg.Columns {
		if _, ok := row[col]; ok {
			continue
		}
		row[col] = stringify(payload[col], "0")
	}
	return row
}

// telemetryShaper persists an event record: module identifier, prediction,
// client-supplied timestamp and free-text notes.
type telemetryShaper struct{}

func (telemetryShaper) Shape(cfg pkg.GameConfig, base Base, pred pkg.Prediction, payload map[string]any) pkg.OutputRow {
	row := baseRow(base)
	row["module"] = stringify(payload["module"], "")
	row["prediction"] = pred.String()
	row["timestamp"] = stringify(payload["timestamp"], "")
	row["notes"] = stringify(payload["notes"], "")
	return row
}

// stringify renders a payload scalar the way it arrived, falling back to
// def when the value is absent.
func stringify(value any, def string) string {
	switch v := value.(type) {
	case nil:
		return def
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
