package tray

import (
	"path/filepath"
	"testing"

	"github.com/clipvault/clipvault/internal/classify"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/menu"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
)

func setupBuilder(t *testing.T) (*Builder, *storage.Store, *config.Settings, *model.Collection) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.Config{
		DBPath:  filepath.Join(dir, "test.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	settings := config.New()
	col := &model.Collection{ID: "col1", Name: "Default"}
	if err := store.CreateCollection(col); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectCollection(col.ID); err != nil {
		t.Fatal(err)
	}
	h := history.New(store, settings, nil)
	m := menu.New(store, nil)
	return NewBuilder(h, m, settings), store, settings, col
}

func TestBuildIncludesRecentHistoryAndFixedEntries(t *testing.T) {
	b, store, _, col := setupBuilder(t)
	h := history.New(store, config.New(), nil)
	if _, _, err := h.InsertText(history.TextCapture{
		Value:          "hello",
		Classification: classify.Classification{ValueForStorage: "hello", IsText: true},
	}); err != nil {
		t.Fatal(err)
	}

	proj, err := b.Build(col.ID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(proj.RecentHistory) != 1 || proj.RecentHistory[0].Label != "hello" {
		t.Errorf("RecentHistory = %+v, want one entry labeled hello", proj.RecentHistory)
	}
	if len(proj.Fixed) == 0 {
		t.Fatalf("Fixed entries missing")
	}
	lastFixed := proj.Fixed[len(proj.Fixed)-1]
	if lastFixed.Action != ActionQuit {
		t.Errorf("last fixed entry = %+v, want the quit action", lastFixed)
	}
}

func TestBuildMasksForcedMaskedRecentHistory(t *testing.T) {
	b, store, _, col := setupBuilder(t)
	h := history.New(store, config.New(), nil)
	rec, _, err := h.InsertText(history.TextCapture{
		Value:          "hunter2password",
		Classification: classify.Classification{ValueForStorage: "hunter2password", IsText: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.SetMasked(rec.ID, true); err != nil {
		t.Fatal(err)
	}

	proj, err := b.Build(col.ID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(proj.RecentHistory) != 1 {
		t.Fatalf("RecentHistory = %+v, want one entry", proj.RecentHistory)
	}
	if proj.RecentHistory[0].Label == "hunter2password" {
		t.Errorf("recent-history label leaked the unmasked value: %q", proj.RecentHistory[0].Label)
	}
}

func TestBuildLabelsImageEntriesWithDimensions(t *testing.T) {
	b, store, _, col := setupBuilder(t)
	rec := &model.HistoryRecord{
		ID: "img1", Kind: model.KindImage, ImageWidth: 64, ImageHeight: 48, IsImage: true,
	}
	if err := store.CreateHistoryRecord(rec); err != nil {
		t.Fatal(err)
	}

	proj, err := b.Build(col.ID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(proj.RecentHistory) != 1 || proj.RecentHistory[0].Label != "clipboard_image_size 64x48" {
		t.Errorf("RecentHistory = %+v, want the image-size label", proj.RecentHistory)
	}
}

func TestBuildRendersLockedFoldersAsDisabledLeaves(t *testing.T) {
	b, store, settings, col := setupBuilder(t)
	folder := &model.Item{ID: "folder1", Role: model.RoleFolder, Name: "Secrets", IsActive: true}
	child := &model.Item{ID: "child1", Role: model.RoleMenu, Name: "Inside", IsActive: true}
	if err := store.CreateItem(folder); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateItem(child); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateMenuEdge(&model.CollectionMenuEdge{CollectionID: col.ID, ItemID: folder.ID, OrderNumber: 0}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateMenuEdge(&model.CollectionMenuEdge{CollectionID: col.ID, ItemID: child.ID, ParentID: folder.ID, OrderNumber: 0}); err != nil {
		t.Fatal(err)
	}

	settings.Set(config.KeyIsAppLocked, "true")
	proj, err := b.Build(col.ID)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(proj.MenuTree) != 1 {
		t.Fatalf("MenuTree = %+v, want the one folder entry", proj.MenuTree)
	}
	folderEntry := proj.MenuTree[0]
	if !folderEntry.Disabled {
		t.Errorf("folder entry not disabled while app locked: %+v", folderEntry)
	}
	if len(folderEntry.Children) != 0 {
		t.Errorf("folder entry exposed children while locked: %+v", folderEntry.Children)
	}
}
