package menu

import (
	"path/filepath"
	"testing"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
)

func setupBareEngine(t *testing.T) (*Engine, *storage.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.Config{
		DBPath:  filepath.Join(dir, "test.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	return New(store, nil), store
}

func TestEnsureDefaultCollectionSeedsMenuTabAndBoard(t *testing.T) {
	e, store := setupBareEngine(t)

	col, err := e.EnsureDefaultCollection()
	if err != nil {
		t.Fatalf("EnsureDefaultCollection() error = %v", err)
	}
	if !col.IsSelected {
		t.Errorf("seeded collection is not selected")
	}

	edges, err := store.MenuEdgesByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 1 {
		t.Fatalf("len(menu edges) = %d, want the one seeded menu item", len(edges))
	}
	menuItem, err := store.GetItem(edges[0].ItemID)
	if err != nil {
		t.Fatal(err)
	}
	if menuItem.Role != model.RoleMenu || !menuItem.IsMenu {
		t.Errorf("seeded menu item = %+v, want RoleMenu with IsMenu set", menuItem)
	}

	tabs, err := store.ListTabs(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tabs) != 1 {
		t.Fatalf("len(tabs) = %d, want 1", len(tabs))
	}
	clips, err := store.ClipEdgesByTab(col.ID, tabs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 1 {
		t.Fatalf("len(clip edges) = %d, want the one seeded board", len(clips))
	}
	board, err := store.GetItem(clips[0].ItemID)
	if err != nil {
		t.Fatal(err)
	}
	if board.Role != model.RoleBoard {
		t.Errorf("board.Role = %q, want %q", board.Role, model.RoleBoard)
	}
}

func TestEnsureDefaultCollectionIsIdempotent(t *testing.T) {
	e, _ := setupBareEngine(t)

	first, err := e.EnsureDefaultCollection()
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.EnsureDefaultCollection()
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("second call seeded a new collection %s, want existing %s", second.ID, first.ID)
	}
}
