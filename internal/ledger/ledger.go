package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"finforge/internal/logger"
	"finforge/pkg"
)

// Ledger appends prediction records to per-game CSV files. Rows are
// written with O_APPEND and serialized per file, so concurrent appends to
// the same game's log each land as exactly one new row and never rewrite
// prior content.
type Ledger struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a new ledger.
func New() *Ledger {
	return &Ledger{
		locks: make(map[string]*sync.Mutex),
	}
}

// fileLock returns the mutex owning path, creating it on first use.
func (l *Ledger) fileLock(path string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[path] = lock
	}
	return lock
}

// Ensure makes sure the log file for a game exists with the schema header.
// An existing file is trusted to already match the schema.
func (l *Ledger) Ensure(path string, columns []string) error {
	lock := l.fileLock(path)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write log header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush log header: %w", err)
	}

	logger.Info().Str("path", path).Msg("log file created")
	return nil
}

// Append writes one row in schema order to the end of the log. Columns the
// row does not carry are persisted empty so the record always matches the
// header positionally. Multiple rows may share a session_id; no dedup.
func (l *Ledger) Append(path string, columns []string, row pkg.OutputRow) error {
	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = row[col]
	}

	lock := l.fileLock(path)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to append log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush log row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}

	return nil
}

// Stats summarizes one game's log file.
type Stats struct {
	Rows          int   `json:"rows"`
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// Stats counts the data rows in a log (header excluded).
func (l *Ledger) Stats(path string) (*Stats, error) {
	lock := l.fileLock(path)
	lock.Lock()
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	stats := &Stats{}
	if len(records) > 0 {
		stats.Rows = len(records) - 1
	}
	if info, err := f.Stat(); err == nil {
		stats.FileSizeBytes = info.Size()
	}

	return stats, nil
}
