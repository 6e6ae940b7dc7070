package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/parquet-go/parquet-go"
)

// ParquetStore keeps the journal as a single Parquet file.
// Parquet files are immutable, so each Persist rewrites the file atomically.
type ParquetStore struct {
	path string
	mu   sync.Mutex
}

// NewParquetStore creates a Parquet store at path
func NewParquetStore(path string) *ParquetStore {
	return &ParquetStore{path: path}
}

// Path returns the journal file path
func (s *ParquetStore) Path() string { return s.path }

// Persist appends rec to the journal
func (s *ParquetStore) Persist(_ context.Context, rec TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ensureDir(s.path); err != nil {
		return err
	}

	rows, err := readParquet(s.path)
	if err != nil {
		return err
	}
	rows = append(rows, rec)

	tmp := s.path + ".tmp"
	if err := parquet.WriteFile(tmp, rows); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write parquet journal: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace parquet journal: %w", err)
	}
	return nil
}

func readParquet(path string) ([]TradeRecord, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	rows, err := parquet.ReadFile[TradeRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet journal: %w", err)
	}
	return rows, nil
}
