package storage

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/pkg/ids"
)

func setupBenchmarkStore(b *testing.B) *Store {
	b.Helper()
	dir := b.TempDir()
	store, err := Open(Config{
		DBPath:  filepath.Join(dir, "bench.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		b.Fatal(err)
	}
	return store
}

func BenchmarkCreateHistoryRecord(b *testing.B) {
	store := setupBenchmarkStore(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := &model.HistoryRecord{
			ID:        ids.New(),
			Kind:      model.KindText,
			Value:     "benchmark value " + strconv.Itoa(i),
			ValueHash: strconv.Itoa(i),
			IsText:    true,
		}
		if err := store.CreateHistoryRecord(rec); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetHistoryRecord(b *testing.B) {
	store := setupBenchmarkStore(b)
	rec := &model.HistoryRecord{ID: ids.New(), Kind: model.KindText, Value: "x", IsText: true}
	if err := store.CreateHistoryRecord(rec); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.GetHistoryRecord(rec.ID); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkListHistory(b *testing.B) {
	store := setupBenchmarkStore(b)
	for i := 0; i < 100; i++ {
		rec := &model.HistoryRecord{ID: ids.New(), Kind: model.KindText, Value: "v", IsText: true}
		if err := store.CreateHistoryRecord(rec); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ListHistory(50, 0); err != nil {
			b.Fatal(err)
		}
	}
}
