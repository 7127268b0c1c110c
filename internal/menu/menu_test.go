package menu

import (
	"path/filepath"
	"testing"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
)

func setupMenuEngine(t *testing.T) (*Engine, *model.Collection) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.Config{
		DBPath:  filepath.Join(dir, "test.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	col := &model.Collection{ID: "col1", Name: "Work"}
	if err := store.CreateCollection(col); err != nil {
		t.Fatal(err)
	}
	return New(store, nil), col
}

func TestDeleteMenuItemKeepsClipWhenAlsoAClip(t *testing.T) {
	e, col := setupMenuEngine(t)
	clip := &model.Item{ID: "clip1", Role: model.RoleClip, IsMenu: true, Name: "Snippet", IsActive: true}
	if err := e.store.CreateItem(clip); err != nil {
		t.Fatal(err)
	}
	if err := e.store.CreateMenuEdge(&model.CollectionMenuEdge{CollectionID: col.ID, ItemID: clip.ID, OrderNumber: 0}); err != nil {
		t.Fatal(err)
	}

	if err := e.DeleteMenuItem(col.ID, clip.ID); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}

	got, err := e.store.GetItem(clip.ID)
	if err != nil {
		t.Fatalf("clip row should survive deletion from the menu, GetItem() error = %v", err)
	}
	if got.IsMenu {
		t.Errorf("IsMenu = true, want false after removal from the menu")
	}

	edges, err := e.store.MenuEdgesByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 0 {
		t.Errorf("len(edges) = %d, want 0", len(edges))
	}
}

func TestDeleteMenuItemDeletesPureMenuEntry(t *testing.T) {
	e, col := setupMenuEngine(t)
	entry := &model.Item{ID: "entry1", Role: model.RoleMenu, Name: "Folder", IsActive: true}
	if err := e.store.CreateItem(entry); err != nil {
		t.Fatal(err)
	}
	if err := e.store.CreateMenuEdge(&model.CollectionMenuEdge{CollectionID: col.ID, ItemID: entry.ID, OrderNumber: 0}); err != nil {
		t.Fatal(err)
	}

	if err := e.DeleteMenuItem(col.ID, entry.ID); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}
	if _, err := e.store.GetItem(entry.ID); err != storage.ErrNotFound {
		t.Errorf("GetItem() err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMenuItemReparentsChildrenAndRenumbers(t *testing.T) {
	e, col := setupMenuEngine(t)
	parent := &model.Item{ID: "parent", Role: model.RoleFolder, Name: "Parent", IsActive: true}
	child := &model.Item{ID: "child", Role: model.RoleMenu, Name: "Child", IsActive: true}
	sibling := &model.Item{ID: "sibling", Role: model.RoleMenu, Name: "Sibling", IsActive: true}
	for _, it := range []*model.Item{parent, child, sibling} {
		if err := e.store.CreateItem(it); err != nil {
			t.Fatal(err)
		}
	}
	edges := []*model.CollectionMenuEdge{
		{CollectionID: col.ID, ItemID: parent.ID, ParentID: "", OrderNumber: 0},
		{CollectionID: col.ID, ItemID: sibling.ID, ParentID: "", OrderNumber: 1},
		{CollectionID: col.ID, ItemID: child.ID, ParentID: parent.ID, OrderNumber: 0},
	}
	for _, ed := range edges {
		if err := e.store.CreateMenuEdge(ed); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.DeleteMenuItem(col.ID, parent.ID); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}

	remaining, err := e.store.MenuEdgesByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	byItem := map[string]*model.CollectionMenuEdge{}
	for _, ed := range remaining {
		byItem[ed.ItemID] = ed
	}
	childEdge, ok := byItem[child.ID]
	if !ok {
		t.Fatalf("child edge missing after parent deletion")
	}
	if childEdge.ParentID != "" {
		t.Errorf("child.ParentID = %q, want root (the deleted parent's own parent)", childEdge.ParentID)
	}
	// parent occupied root order 0 with one child; the child is inserted
	// at parent's own slot (0 + 0 + 1 = 1) and the pre-existing root
	// sibling that sorted after parent (order 1) shifts down by the one
	// repositioned child, landing at 2.
	if childEdge.OrderNumber != 1 {
		t.Errorf("child.OrderNumber = %d, want 1", childEdge.OrderNumber)
	}
	siblingEdge, ok := byItem[sibling.ID]
	if !ok {
		t.Fatalf("sibling edge missing after parent deletion")
	}
	if siblingEdge.OrderNumber != 2 {
		t.Errorf("sibling.OrderNumber = %d, want 2", siblingEdge.OrderNumber)
	}
}

// TestDeleteMenuItemReparentsMultipleChildrenDeterministically exercises
// a deleted node with two children plus a root-level sibling whose
// order_number collides with the reparented children's original
// positions. Before the insert-at-slot-then-shift fix, the final order
// depended on whatever order MenuEdgesByCollection happened to return
// rows in.
func TestDeleteMenuItemReparentsMultipleChildrenDeterministically(t *testing.T) {
	e, col := setupMenuEngine(t)
	a := &model.Item{ID: "a", Role: model.RoleFolder, Name: "A", IsActive: true}
	b := &model.Item{ID: "b", Role: model.RoleMenu, Name: "B", IsActive: true}
	c := &model.Item{ID: "c", Role: model.RoleMenu, Name: "C", IsActive: true}
	d := &model.Item{ID: "d", Role: model.RoleMenu, Name: "D", IsActive: true}
	for _, it := range []*model.Item{a, b, c, d} {
		if err := e.store.CreateItem(it); err != nil {
			t.Fatal(err)
		}
	}
	edges := []*model.CollectionMenuEdge{
		{CollectionID: col.ID, ItemID: a.ID, ParentID: "", OrderNumber: 0},
		{CollectionID: col.ID, ItemID: d.ID, ParentID: "", OrderNumber: 1},
		{CollectionID: col.ID, ItemID: b.ID, ParentID: a.ID, OrderNumber: 0},
		{CollectionID: col.ID, ItemID: c.ID, ParentID: a.ID, OrderNumber: 1},
	}
	for _, ed := range edges {
		if err := e.store.CreateMenuEdge(ed); err != nil {
			t.Fatal(err)
		}
	}

	if err := e.DeleteMenuItem(col.ID, a.ID); err != nil {
		t.Fatalf("DeleteMenuItem() error = %v", err)
	}

	remaining, err := e.store.MenuEdgesByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	byItem := map[string]*model.CollectionMenuEdge{}
	for _, ed := range remaining {
		byItem[ed.ItemID] = ed
	}
	wantOrder := map[string]int{b.ID: 1, c.ID: 2, d.ID: 3}
	for id, want := range wantOrder {
		ed, ok := byItem[id]
		if !ok {
			t.Fatalf("edge for %q missing after deletion", id)
		}
		if ed.ParentID != "" {
			t.Errorf("%s.ParentID = %q, want root", id, ed.ParentID)
		}
		if ed.OrderNumber != want {
			t.Errorf("%s.OrderNumber = %d, want %d", id, ed.OrderNumber, want)
		}
	}
	seen := map[int]string{}
	for _, ed := range remaining {
		if other, dup := seen[ed.OrderNumber]; dup {
			t.Errorf("order_number %d duplicated between %q and %q", ed.OrderNumber, other, ed.ItemID)
		}
		seen[ed.OrderNumber] = ed.ItemID
	}
}

func TestSetClipsPinnedBatchAssignsOrderPerIndex(t *testing.T) {
	e, _ := setupMenuEngine(t)
	var ids []string
	for _, name := range []string{"First", "Second"} {
		it := &model.Item{ID: "pin-" + name, Role: model.RoleClip, Name: name, IsActive: true}
		if err := e.store.CreateItem(it); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, it.ID)
	}

	if err := e.SetClipsPinned(ids, true); err != nil {
		t.Fatalf("SetClipsPinned() error = %v", err)
	}
	for i, id := range ids {
		it, err := e.store.GetItem(id)
		if err != nil {
			t.Fatal(err)
		}
		if !it.IsPinned || it.PinnedOrderNumber != i+1 {
			t.Errorf("item %d = pinned:%v order:%d, want pinned with order %d", i, it.IsPinned, it.PinnedOrderNumber, i+1)
		}
	}

	if err := e.SetClipsPinned(ids, false); err != nil {
		t.Fatalf("SetClipsPinned(false) error = %v", err)
	}
	for _, id := range ids {
		it, err := e.store.GetItem(id)
		if err != nil {
			t.Fatal(err)
		}
		if it.IsPinned || it.PinnedOrderNumber != 0 {
			t.Errorf("item %s = %+v, want cleared pin state", id, it)
		}
	}
}

func TestDuplicatePrefixesNameAndInsertsAtSlotZero(t *testing.T) {
	e, col := setupMenuEngine(t)
	orig := &model.Item{ID: "orig", Role: model.RoleClip, Name: "Snippet", IsActive: true}
	if err := e.store.CreateItem(orig); err != nil {
		t.Fatal(err)
	}
	if err := e.store.CreateMenuEdge(&model.CollectionMenuEdge{CollectionID: col.ID, ItemID: orig.ID, OrderNumber: 1}); err != nil {
		t.Fatal(err)
	}

	clone, err := e.Duplicate(col.ID, orig.ID)
	if err != nil {
		t.Fatalf("Duplicate() error = %v", err)
	}
	if clone.Name != "Copy of Snippet" {
		t.Errorf("clone.Name = %q, want %q", clone.Name, "Copy of Snippet")
	}
	if clone.ID == orig.ID {
		t.Errorf("clone.ID == orig.ID, want a fresh id")
	}

	edges, err := e.store.MenuEdgesByCollection(col.ID)
	if err != nil {
		t.Fatal(err)
	}
	var cloneEdge *model.CollectionMenuEdge
	for _, ed := range edges {
		if ed.ItemID == clone.ID {
			cloneEdge = ed
		}
	}
	if cloneEdge == nil {
		t.Fatal("clone has no menu edge")
	}
	if cloneEdge.OrderNumber != 0 || cloneEdge.ParentID != "" {
		t.Errorf("clone edge = %+v, want order 0 under the original's parent", cloneEdge)
	}
}
