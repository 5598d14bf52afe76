package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finforge/internal/ledger"
	"finforge/pkg"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func gameConfig() pkg.GameConfig {
	return pkg.GameConfig{
		ID:          "budget",
		Name:        "Cash Flow Runner",
		Variant:     "classification",
		Features:    []string{"cost_in_rs"},
		Columns:     []string{"user_id", "session_id", "cost_in_rs", "ground_truth_type", "prediction", "correct"},
		ModelPath:   "budget/model.json",
		EncoderPath: "budget/encoder.json",
		CSVPath:     "budget/user_data.csv",
	}
}

func TestBootstrapLoadsGame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "budget/model.json", `{"kind":"linear","weights":[1],"intercept":0}`)
	writeFile(t, dir, "budget/encoder.json", `{"classes":["need","want"]}`)

	reg, err := Bootstrap([]pkg.GameConfig{gameConfig()}, dir, ledger.New())
	require.NoError(t, err)

	entry, err := reg.Get("budget")
	require.NoError(t, err)
	assert.NotNil(t, entry.Model)
	assert.NotNil(t, entry.Encoder)
	assert.NotNil(t, entry.Shaper)

	// The log file exists with the schema header.
	data, err := os.ReadFile(filepath.Join(dir, "budget/user_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "user_id,session_id,cost_in_rs,ground_truth_type,prediction,correct\n", string(data))

	assert.Equal(t, []string{"budget"}, reg.IDs())
}

func TestBootstrapMissingModelIsFatal(t *testing.T) {
	_, err := Bootstrap([]pkg.GameConfig{gameConfig()}, t.TempDir(), ledger.New())
	assert.Error(t, err)
}

func TestBootstrapMissingEncoderIsTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "budget/model.json", `{"kind":"linear","weights":[1],"intercept":0}`)

	reg, err := Bootstrap([]pkg.GameConfig{gameConfig()}, dir, ledger.New())
	require.NoError(t, err)

	entry, err := reg.Get("budget")
	require.NoError(t, err)
	assert.Nil(t, entry.Encoder)
}

func TestBootstrapCorruptEncoderIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "budget/model.json", `{"kind":"linear","weights":[1],"intercept":0}`)
	writeFile(t, dir, "budget/encoder.json", `{"classes":[]}`)

	_, err := Bootstrap([]pkg.GameConfig{gameConfig()}, dir, ledger.New())
	assert.Error(t, err)
}

func TestBootstrapUnknownVariantIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "budget/model.json", `{"kind":"linear","weights":[1],"intercept":0}`)
	writeFile(t, dir, "budget/encoder.json", `{"classes":["need"]}`)

	cfg := gameConfig()
	cfg.Variant = "open_ended"
	_, err := Bootstrap([]pkg.GameConfig{cfg}, dir, ledger.New())
	assert.Error(t, err)
}

func TestGetUnknownGame(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "budget/model.json", `{"kind":"linear","weights":[1],"intercept":0}`)
	writeFile(t, dir, "budget/encoder.json", `{"classes":["need"]}`)

	reg, err := Bootstrap([]pkg.GameConfig{gameConfig()}, dir, ledger.New())
	require.NoError(t, err)

	_, err = reg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownGame)
}
