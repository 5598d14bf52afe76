package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finforge/pkg"
)

var columns = []string{"user_id", "session_id", "prediction"}

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestEnsureCreatesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game", "user_data.csv")
	l := New()

	require.NoError(t, l.Ensure(path, columns))

	records := readAll(t, path)
	require.Len(t, records, 1)
	assert.Equal(t, columns, records[0])
}

func TestEnsureLeavesExistingFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()

	require.NoError(t, l.Ensure(path, columns))
	require.NoError(t, l.Append(path, columns, pkg.OutputRow{"user_id": "u1", "session_id": "s1", "prediction": "want"}))

	before := readAll(t, path)
	require.NoError(t, l.Ensure(path, columns))
	assert.Equal(t, before, readAll(t, path))
}

func TestAppendAddsExactlyOneRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()
	require.NoError(t, l.Ensure(path, columns))

	require.NoError(t, l.Append(path, columns, pkg.OutputRow{"user_id": "u1", "session_id": "s1", "prediction": "want"}))
	before := readAll(t, path)

	require.NoError(t, l.Append(path, columns, pkg.OutputRow{"user_id": "u2", "session_id": "s2", "prediction": "need"}))
	after := readAll(t, path)

	require.Len(t, after, len(before)+1)
	// Prior rows are untouched.
	assert.Equal(t, before, after[:len(before)])
	assert.Equal(t, []string{"u2", "s2", "need"}, after[len(after)-1])
}

func TestAppendFillsMissingColumnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()
	require.NoError(t, l.Ensure(path, columns))

	require.NoError(t, l.Append(path, columns, pkg.OutputRow{"user_id": "u1"}))

	records := readAll(t, path)
	assert.Equal(t, []string{"u1", "", ""}, records[1])
}

func TestAppendAllowsDuplicateSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()
	require.NoError(t, l.Ensure(path, columns))

	row := pkg.OutputRow{"user_id": "u1", "session_id": "same", "prediction": "want"}
	require.NoError(t, l.Append(path, columns, row))
	require.NoError(t, l.Append(path, columns, row))

	records := readAll(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, records[1], records[2])
}

func TestConcurrentAppendsLoseNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()
	require.NoError(t, l.Ensure(path, columns))

	const n = 64
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = l.Append(path, columns, pkg.OutputRow{
				"user_id":    fmt.Sprintf("u%d", i),
				"session_id": fmt.Sprintf("s%d", i),
				"prediction": "want",
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "append %d", i)
	}

	records := readAll(t, path)
	assert.Len(t, records, n+1)
}

func TestStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.csv")
	l := New()
	require.NoError(t, l.Ensure(path, columns))

	stats, err := l.Stats(path)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Rows)

	require.NoError(t, l.Append(path, columns, pkg.OutputRow{"user_id": "u1"}))
	stats, err = l.Stats(path)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Rows)
	assert.Greater(t, stats.FileSizeBytes, int64(0))
}
