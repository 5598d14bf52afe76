package artifact

import (
	"fmt"
	"math"
	"os"

	"github.com/bytedance/sonic"
)

// Model is a pre-fitted predictor loaded from an artifact file. Predict
// takes one feature vector and returns the raw model output: a score for
// regression models, a class index for classifiers. Implementations are
// read-only after load and safe for concurrent use.
type Model interface {
	Predict(features []float64) (any, error)
}

// document is the on-disk artifact format. Kind selects the predictor.
type document struct {
	Kind      string     `json:"kind"`
	Weights   []float64  `json:"weights,omitempty"`
	Intercept float64    `json:"intercept,omitempty"`
	Nodes     []TreeNode `json:"nodes,omitempty"`
	Centroids []Centroid `json:"centroids,omitempty"`
}

// TreeNode is one node of a fitted decision tree. Leaf nodes carry the
// predicted value; internal nodes route on Feature vs Threshold.
type TreeNode struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value,omitempty"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      int     `json:"left,omitempty"`
	Right     int     `json:"right,omitempty"`
}

// Centroid is one class prototype for a nearest-centroid classifier.
type Centroid struct {
	ClassIndex int       `json:"class_index"`
	Values     []float64 `json:"values"`
}

// LoadModel reads a model artifact from disk. The caller decides whether a
// load failure is fatal; for required game models it is.
func LoadModel(path string) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var doc document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	switch doc.Kind {
	case "linear":
		if len(doc.Weights) == 0 {
			return nil, fmt.Errorf("linear model %s has no weights", path)
		}
		return &linearModel{weights: doc.Weights, intercept: doc.Intercept}, nil
	case "tree":
		if len(doc.Nodes) == 0 {
			return nil, fmt.Errorf("tree model %s has no nodes", path)
		}
		return &treeModel{nodes: doc.Nodes}, nil
	case "centroid":
		if len(doc.Centroids) == 0 {
			return nil, fmt.Errorf("centroid model %s has no centroids", path)
		}
		return &centroidModel{centroids: doc.Centroids}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q in %s", doc.Kind, path)
	}
}

// linearModel computes a weighted sum plus intercept.
type linearModel struct {
	weights   []float64
	intercept float64
}

func (m *linearModel) Predict(features []float64) (any, error) {
	if len(features) != len(m.weights) {
		return nil, fmt.Errorf("expected %d features, got %d", len(m.weights), len(features))
	}
	score := m.intercept
	for i, w := range m.weights {
		score += w * features[i]
	}
	return score, nil
}

// treeModel walks a fitted decision tree from the root node.
type treeModel struct {
	nodes []TreeNode
}

func (m *treeModel) Predict(features []float64) (any, error) {
	idx := 0
	// Bounded by the node count so a malformed artifact cannot loop forever.
	for steps := 0; steps <= len(m.nodes); steps++ {
		if idx < 0 || idx >= len(m.nodes) {
			return nil, fmt.Errorf("tree node index %d out of range", idx)
		}
		node := m.nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return nil, fmt.Errorf("tree references feature %d, vector has %d", node.Feature, len(features))
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return nil, fmt.Errorf("tree walk did not reach a leaf")
}

// centroidModel returns the class index of the nearest centroid.
type centroidModel struct {
	centroids []Centroid
}

func (m *centroidModel) Predict(features []float64) (any, error) {
	best := -1
	bestDist := math.Inf(1)
	for _, c := range m.centroids {
		if len(c.Values) != len(features) {
			return nil, fmt.Errorf("centroid expects %d features, got %d", len(c.Values), len(features))
		}
		dist := 0.0
		for i, v := range c.Values {
			d := features[i] - v
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = c.ClassIndex
		}
	}
	return float64(best), nil
}
