package artifact

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// LabelEncoder maps a model's raw class index back to its category name.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// LoadEncoder reads a label encoder artifact from disk.
func LoadEncoder(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read encoder artifact: %w", err)
	}

	var enc LabelEncoder
	if err := sonic.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("failed to parse encoder artifact %s: %w", path, err)
	}
	if len(enc.Classes) == 0 {
		return nil, fmt.Errorf("encoder artifact %s has no classes", path)
	}

	return &enc, nil
}

// Decode returns the label for a class index.
func (e *LabelEncoder) Decode(index int) (string, error) {
	if index < 0 || index >= len(e.Classes) {
		return "", fmt.Errorf("class index %d out of range [0,%d)", index, len(e.Classes))
	}
	return e.Classes[index], nil
}
