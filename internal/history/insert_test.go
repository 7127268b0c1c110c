package history

import (
	"path/filepath"
	"testing"

	"github.com/clipvault/clipvault/internal/classify"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/storage"
)

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.Open(storage.Config{
		DBPath:  filepath.Join(dir, "test.db"),
		BaseDir: dir,
	}, nil)
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	return New(store, config.New(), nil)
}

func TestInsertTextDedupTouchesExisting(t *testing.T) {
	e := setupEngine(t)
	capture := TextCapture{
		Value:          "hello world",
		Classification: classify.Classification{ValueForStorage: "hello world", IsText: true},
	}

	first, isNew, err := e.InsertText(capture)
	if err != nil {
		t.Fatalf("InsertText() error = %v", err)
	}
	if !isNew {
		t.Fatalf("first insert: isNew = false, want true")
	}

	second, isNew, err := e.InsertText(capture)
	if err != nil {
		t.Fatalf("InsertText() (dup) error = %v", err)
	}
	if isNew {
		t.Errorf("duplicate insert: isNew = true, want false")
	}
	if second.ID != first.ID {
		t.Errorf("duplicate insert created a new row: got id %s, want %s", second.ID, first.ID)
	}
}

func TestInsertTextDistinctValuesCreateDistinctRecords(t *testing.T) {
	e := setupEngine(t)
	a, _, err := e.InsertText(TextCapture{Value: "a", Classification: classify.Classification{ValueForStorage: "a", IsText: true}})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := e.InsertText(TextCapture{Value: "b", Classification: classify.Classification{ValueForStorage: "b", IsText: true}})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Errorf("distinct values produced the same record id %s", a.ID)
	}
}

func TestSetPinnedBatchAssignsOrderPerIndex(t *testing.T) {
	e := setupEngine(t)
	var ids []string
	for _, v := range []string{"one", "two", "three"} {
		rec, _, err := e.InsertText(TextCapture{Value: v, Classification: classify.Classification{ValueForStorage: v, IsText: true}})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, rec.ID)
	}

	if err := e.SetPinned(ids, true); err != nil {
		t.Fatalf("SetPinned() error = %v", err)
	}
	for i, id := range ids {
		rec, err := e.store.GetHistoryRecord(id)
		if err != nil {
			t.Fatal(err)
		}
		if !rec.IsPinned || rec.PinnedOrderNumber != i+1 {
			t.Errorf("record %d = pinned:%v order:%d, want pinned with order %d", i, rec.IsPinned, rec.PinnedOrderNumber, i+1)
		}
	}

	if err := e.SetPinned(ids[:1], false); err != nil {
		t.Fatalf("SetPinned(false) error = %v", err)
	}
	unpinned, err := e.store.GetHistoryRecord(ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if unpinned.IsPinned || unpinned.PinnedOrderNumber != 0 {
		t.Errorf("unpinned = %+v, want cleared pin state", unpinned)
	}

	if err := e.UnpinAll(); err != nil {
		t.Fatalf("UnpinAll() error = %v", err)
	}
	remaining, err := e.ListPinned()
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 0 {
		t.Errorf("len(ListPinned()) = %d after UnpinAll, want 0", len(remaining))
	}
}

func TestSetFavoriteAndMaskedToggles(t *testing.T) {
	e := setupEngine(t)
	rec, _, err := e.InsertText(TextCapture{Value: "secret", Classification: classify.Classification{ValueForStorage: "secret", IsText: true}})
	if err != nil {
		t.Fatal(err)
	}

	favorited, err := e.SetFavorite(rec.ID, true)
	if err != nil {
		t.Fatalf("SetFavorite() error = %v", err)
	}
	if !favorited.IsFavorite {
		t.Errorf("IsFavorite = false, want true")
	}

	masked, err := e.SetMasked(rec.ID, true)
	if err != nil {
		t.Fatalf("SetMasked() error = %v", err)
	}
	if !masked.IsMasked {
		t.Errorf("IsMasked = false, want true")
	}
}

func TestSearchFiltersByKindAndStarred(t *testing.T) {
	e := setupEngine(t)
	text, _, err := e.InsertText(TextCapture{Value: "plain", Classification: classify.Classification{ValueForStorage: "plain", IsText: true}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.SetFavorite(text.ID, true); err != nil {
		t.Fatal(err)
	}
	if _, _, err := e.InsertText(TextCapture{Value: "func main() {}", Classification: classify.Classification{ValueForStorage: "func main() {}", IsCode: true, DetectedLanguage: "go"}}); err != nil {
		t.Fatal(err)
	}

	starred, err := e.Search(Query{StarredOnly: true})
	if err != nil {
		t.Fatalf("Search(starred) error = %v", err)
	}
	if len(starred) != 1 || starred[0].ID != text.ID {
		t.Errorf("starred = %+v, want just %s", starred, text.ID)
	}

	code, err := e.Search(Query{Kinds: ContentKindFilter{Code: true}})
	if err != nil {
		t.Fatalf("Search(code) error = %v", err)
	}
	if len(code) != 1 || !code[0].IsCode {
		t.Errorf("code = %+v, want exactly one code record", code)
	}
}
