package pkg

import (
	"fmt"
	"strconv"
)

// Core types shared across the prediction pipeline

// GameConfig describes one prediction task: its feature schema, model
// artifacts and ledger location. Instances are immutable after load.
type GameConfig struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Variant     string   `yaml:"variant" json:"variant"` // classification, computation, telemetry
	Features    []string `yaml:"features" json:"features"`
	Columns     []string `yaml:"columns" json:"columns"`
	ModelPath   string   `yaml:"model_path" json:"model_path"`
	EncoderPath string   `yaml:"encoder_path,omitempty" json:"encoder_path,omitempty"`
	CSVPath     string   `yaml:"csv_path" json:"csv_path"`
}

// FeatureVector is the fixed-order numeric input for one prediction.
// Names follow the game's feature list exactly; Values[i] belongs to Names[i].
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Get returns the value for a feature name, or 0 if the name is unknown.
func (v FeatureVector) Get(name string) float64 {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i]
		}
	}
	return 0
}

// Len returns the number of features in the vector.
func (v FeatureVector) Len() int {
	return len(v.Values)
}

// Prediction is the resolved outcome of one model invocation. Label is a
// string for decoded class labels and for the error sentinel, a float64
// for raw regression output.
type Prediction struct {
	Label  any  `json:"label"`
	Failed bool `json:"failed"`
}

// String renders the label the way it is persisted and compared.
func (p Prediction) String() string {
	switch l := p.Label.(type) {
	case string:
		return l
	case float64:
		return strconv.FormatFloat(l, 'f', -1, 64)
	default:
		return fmt.Sprint(l)
	}
}

// OutputRow is one shaped ledger record, keyed by column name. Columns the
// shaper did not produce are persisted empty.
type OutputRow map[string]string

// PredictOutcome is what the dispatcher returns to the boundary.
type PredictOutcome struct {
	Game       string `json:"game"`
	SessionID  string `json:"session_id"`
	Prediction any    `json:"prediction"`
	Status     string `json:"status"`
}
