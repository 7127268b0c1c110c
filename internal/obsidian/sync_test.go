package obsidian

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipvault/clipvault/internal/model"
)

type fakeExporter struct {
	records []*model.HistoryRecord
}

func (f *fakeExporter) ExportCandidates(since time.Time, limit int) ([]*model.HistoryRecord, error) {
	var out []*model.HistoryRecord
	for _, r := range f.records {
		if !r.UpdatedAt.Before(since) {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestSyncWritesDatedNoteForTextRecord(t *testing.T) {
	vault := t.TempDir()
	now := time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
	exp := &fakeExporter{records: []*model.HistoryRecord{
		{ID: "abc", Kind: model.KindText, Value: "hello vault", CreatedAt: now, UpdatedAt: now, IsText: true},
	}}

	svc, err := New(exp, Config{VaultPath: vault, SyncInterval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, now.Add(-time.Minute))
	defer svc.Stop()

	notePath := filepath.Join(vault, "Clipboard", "2026-01-15.md")
	data, err := os.ReadFile(notePath)
	if err != nil {
		t.Fatalf("expected note at %s, ReadFile() error = %v", notePath, err)
	}
	content := string(data)
	if !strings.Contains(content, "hello vault") {
		t.Errorf("note content = %q, want it to contain the record value", content)
	}
}

func TestSyncWritesImageAssetForImageRecord(t *testing.T) {
	vault := t.TempDir()
	now := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	exp := &fakeExporter{records: []*model.HistoryRecord{
		{ID: "img1", Kind: model.KindImage, ImageLowResBytes: []byte{1, 2, 3}, CreatedAt: now, UpdatedAt: now, IsImage: true},
	}}

	svc, err := New(exp, Config{VaultPath: vault, SyncInterval: time.Hour}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx, now.Add(-time.Minute))
	defer svc.Stop()

	assetsDir := filepath.Join(vault, "Clipboard", "assets")
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		t.Fatalf("ReadDir(assets) error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
}
