package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clipvault/clipvault/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(Config{
		DBPath:  filepath.Join(dir, "test.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return store
}

func TestHistoryRecordCreateGet(t *testing.T) {
	store := setupTestStore(t)

	rec := &model.HistoryRecord{
		ID:        "hist0000000000001",
		Kind:      model.KindText,
		Value:     "hello",
		ValueHash: "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d",
		IsText:    true,
	}
	if err := store.CreateHistoryRecord(rec); err != nil {
		t.Fatalf("CreateHistoryRecord() error = %v", err)
	}

	got, err := store.GetHistoryRecord(rec.ID)
	if err != nil {
		t.Fatalf("GetHistoryRecord() error = %v", err)
	}
	if got.Value != "hello" {
		t.Errorf("Value = %q, want hello", got.Value)
	}
}

func TestGetHistoryRecordNotFound(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.GetHistoryRecord("missing"); err != ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecentHistoryByHash(t *testing.T) {
	store := setupTestStore(t)
	for i := 0; i < 3; i++ {
		id := "h" + string(rune('a'+i))
		rec := &model.HistoryRecord{ID: id, Kind: model.KindText, Value: "x", ValueHash: "samehash"}
		if err := store.CreateHistoryRecord(rec); err != nil {
			t.Fatalf("CreateHistoryRecord() error = %v", err)
		}
	}
	records, err := store.RecentHistoryByHash(model.KindText, "value_hash", "samehash", 10)
	if err != nil {
		t.Fatalf("RecentHistoryByHash() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
}

func TestSwapHistoryPinnedOrder(t *testing.T) {
	store := setupTestStore(t)
	a := &model.HistoryRecord{ID: "pa", Kind: model.KindText, IsPinned: true, PinnedOrderNumber: 1}
	b := &model.HistoryRecord{ID: "pb", Kind: model.KindText, IsPinned: true, PinnedOrderNumber: 2}
	if err := store.CreateHistoryRecord(a); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateHistoryRecord(b); err != nil {
		t.Fatal(err)
	}
	if err := store.SwapHistoryPinnedOrder(a.ID, b.ID); err != nil {
		t.Fatalf("SwapHistoryPinnedOrder() error = %v", err)
	}
	gotA, _ := store.GetHistoryRecord(a.ID)
	gotB, _ := store.GetHistoryRecord(b.ID)
	if gotA.PinnedOrderNumber != 2 || gotB.PinnedOrderNumber != 1 {
		t.Errorf("after swap: a=%d b=%d, want a=2 b=1", gotA.PinnedOrderNumber, gotB.PinnedOrderNumber)
	}
}

func TestSelectCollectionIsExclusive(t *testing.T) {
	store := setupTestStore(t)
	c1 := &model.Collection{ID: "c1", Name: "One"}
	c2 := &model.Collection{ID: "c2", Name: "Two"}
	if err := store.CreateCollection(c1); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateCollection(c2); err != nil {
		t.Fatal(err)
	}
	if err := store.SelectCollection(c1.ID); err != nil {
		t.Fatalf("SelectCollection() error = %v", err)
	}
	if err := store.SelectCollection(c2.ID); err != nil {
		t.Fatalf("SelectCollection() error = %v", err)
	}
	sel, err := store.SelectedCollection()
	if err != nil {
		t.Fatalf("SelectedCollection() error = %v", err)
	}
	if sel.ID != c2.ID {
		t.Errorf("selected = %s, want %s", sel.ID, c2.ID)
	}
}

func TestCascadeDeleteCollectionRemovesEdgesAndTabs(t *testing.T) {
	store := setupTestStore(t)
	col := &model.Collection{ID: "col1", Name: "Work"}
	if err := store.CreateCollection(col); err != nil {
		t.Fatal(err)
	}
	tab := &model.Tab{ID: "tab1", CollectionID: col.ID, Name: "Tab"}
	if err := store.CreateTab(tab); err != nil {
		t.Fatal(err)
	}
	item := &model.Item{ID: "item1", Role: model.RoleMenu, Name: "Entry"}
	if err := store.CreateItem(item); err != nil {
		t.Fatal(err)
	}
	edge := &model.CollectionMenuEdge{CollectionID: col.ID, ItemID: item.ID, OrderNumber: 0}
	if err := store.CreateMenuEdge(edge); err != nil {
		t.Fatal(err)
	}

	if err := store.CascadeDeleteCollection(col.ID, true); err != nil {
		t.Fatalf("CascadeDeleteCollection() error = %v", err)
	}

	if _, err := store.GetCollection(col.ID); err != ErrNotFound {
		t.Errorf("collection should be gone, err = %v", err)
	}
	tabs, err := store.ListTabs(col.ID)
	if err != nil {
		t.Fatalf("ListTabs() error = %v", err)
	}
	if len(tabs) != 0 {
		t.Errorf("len(tabs) = %d, want 0", len(tabs))
	}
	if _, err := store.GetItem(item.ID); err != ErrNotFound {
		t.Errorf("item should be deleted when only referenced by the deleted collection, err = %v", err)
	}
}

func TestDeleteHistoryOlderThan(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()

	old := &model.HistoryRecord{ID: "old1", Kind: model.KindText, Value: "old", UpdatedAt: now.Add(-40 * 24 * time.Hour)}
	if err := store.CreateHistoryRecord(old); err != nil {
		t.Fatal(err)
	}
	recent := &model.HistoryRecord{ID: "new1", Kind: model.KindText, Value: "new", UpdatedAt: now.Add(-1 * time.Hour)}
	if err := store.CreateHistoryRecord(recent); err != nil {
		t.Fatal(err)
	}

	victims, err := store.DeleteHistoryOlderThan(now.Add(-30 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteHistoryOlderThan() error = %v", err)
	}
	if len(victims) != 1 || victims[0].ID != old.ID {
		t.Errorf("victims = %+v, want just %s", victims, old.ID)
	}
	if _, err := store.GetHistoryRecord(recent.ID); err != nil {
		t.Errorf("recent record should survive, err = %v", err)
	}
}
