package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists trade records. Implementations are safe for concurrent use.
type Store interface {
	Persist(ctx context.Context, rec TradeRecord) error
	Path() string
}

// Formats supported by NewStore
const (
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

// NewStore creates a store by format (jsonl, parquet)
func NewStore(format, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSONL, "json":
		return NewJSONLStore(path), nil
	case FormatParquet:
		return NewParquetStore(path), nil
	default:
		return nil, fmt.Errorf("journal: unsupported format %q (use: jsonl, parquet)", format)
	}
}

// Load reads every record from a journal file, choosing the decoder by extension
func Load(path string) ([]TradeRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return readParquet(path)
	}
	return readJSONL(path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}
	return nil
}
