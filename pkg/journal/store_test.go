package journal

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func sampleRecord(symbol string, openedAt time.Time) TradeRecord {
	rec := NewTradeRecord(openedAt)
	rec.Symbol = symbol
	rec.Side = "BUY"
	rec.Mode = "paper"
	rec.OrderID = "ord-1"
	rec.Magic = 219000
	rec.Tag = "FIBONACCI"
	rec.Volume = 2.0
	rec.EntryPrice = 1.18
	rec.StopLoss = 1.17
	rec.TakeProfit = 1.18
	rec.Pattern = "bullish_engulfing"
	rec.Trend = "uptrend"
	rec.FibRatio = 0.618
	rec.Capital = 100
	rec.Notional = 20000
	return rec
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"jsonl", false},
		{" JSON ", false},
		{"parquet", false},
		{"csv", true},
	}
	for _, tt := range tests {
		s, err := NewStore(tt.format, filepath.Join(dir, "trades"))
		if (err != nil) != tt.wantErr {
			t.Errorf("NewStore(%q) err = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if !tt.wantErr && s == nil {
			t.Errorf("NewStore(%q) returned nil store", tt.format)
		}
	}
}

func TestNewTradeRecord(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := NewTradeRecord(at)
	b := NewTradeRecord(at)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if !a.OpenedTime().Equal(at) {
		t.Errorf("OpenedTime = %v, want %v", a.OpenedTime(), at)
	}
}

func TestStores_PersistAndLoad(t *testing.T) {
	for _, format := range []string{FormatJSONL, FormatParquet} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "trades."+format)
			store, err := NewStore(format, path)
			if err != nil {
				t.Fatal(err)
			}

			at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			want := []TradeRecord{sampleRecord("EURUSD", at), sampleRecord("GBPUSD", at.Add(time.Hour))}
			for _, rec := range want {
				if err := store.Persist(context.Background(), rec); err != nil {
					t.Fatalf("Persist: %v", err)
				}
			}

			got, err := Load(store.Path())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d records, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("record %d mismatch:\n got  %+v\n want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"none.jsonl", "none.parquet"} {
		recs, err := Load(filepath.Join(dir, name))
		if err != nil || len(recs) != 0 {
			t.Errorf("%s: expected empty result, got %d records, err %v", name, len(recs), err)
		}
	}
}

func TestLoad_CorruptLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.jsonl")
	if err := os.WriteFile(path, []byte("{\"symbol\":\"EURUSD\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt line")
	}
}

func TestJSONLStore_ConcurrentPersist(t *testing.T) {
	store := NewJSONLStore(filepath.Join(t.TempDir(), "trades.jsonl"))
	at := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Persist(context.Background(), sampleRecord("EURUSD", at)); err != nil {
				t.Errorf("Persist: %v", err)
			}
		}()
	}
	wg.Wait()

	recs, err := Load(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 20 {
		t.Errorf("expected 20 records, got %d", len(recs))
	}
}
