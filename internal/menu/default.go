package menu

import (
	"fmt"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/pkg/ids"
)

// EnsureDefaultCollection seeds a first-run collection with one root
// menu item, one tab, and one board on that tab, selecting it. It is a
// no-op if any collection already exists. Partial seeding failures are
// rolled back by deleting whatever was created, so a crash mid-seed
// can't leave a half-built, unselectable collection behind.
func (e *Engine) EnsureDefaultCollection() (*model.Collection, error) {
	existing, err := e.store.SelectedCollection()
	if err == nil && existing != nil {
		return existing, nil
	}

	collection := &model.Collection{ID: ids.New(), Name: "My Clips", IsSelected: true}
	if err := e.store.CreateCollection(collection); err != nil {
		return nil, fmt.Errorf("menu: seed default collection: %w", err)
	}

	menuItem := &model.Item{
		ID:       ids.New(),
		Name:     "Menu Item",
		Role:     model.RoleMenu,
		IsMenu:   true,
		IsActive: true,
	}
	if err := e.store.CreateItem(menuItem); err != nil {
		e.rollbackCollection(collection.ID)
		return nil, fmt.Errorf("menu: seed default menu item: %w", err)
	}
	menuEdge := &model.CollectionMenuEdge{
		CollectionID: collection.ID,
		ItemID:       menuItem.ID,
		ParentID:     "",
		OrderNumber:  0,
	}
	if err := e.store.CreateMenuEdge(menuEdge); err != nil {
		e.rollbackCollection(collection.ID)
		return nil, fmt.Errorf("menu: seed default menu edge: %w", err)
	}

	tab := &model.Tab{ID: ids.New(), CollectionID: collection.ID, Name: "Tab", TabOrderNumber: 0}
	if err := e.store.CreateTab(tab); err != nil {
		e.rollbackCollection(collection.ID)
		return nil, fmt.Errorf("menu: seed default tab: %w", err)
	}

	board := &model.Item{
		ID:       ids.New(),
		Name:     "Board",
		Role:     model.RoleBoard,
		IsActive: true,
	}
	if err := e.store.CreateItem(board); err != nil {
		e.rollbackCollection(collection.ID)
		return nil, fmt.Errorf("menu: seed default board: %w", err)
	}

	boardEdge := &model.CollectionClipEdge{
		CollectionID: collection.ID,
		ItemID:       board.ID,
		TabID:        tab.ID,
		ParentID:     "",
		OrderNumber:  0,
	}
	if err := e.store.CreateClipEdge(boardEdge); err != nil {
		e.rollbackCollection(collection.ID)
		return nil, fmt.Errorf("menu: seed default board edge: %w", err)
	}

	return collection, nil
}

func (e *Engine) rollbackCollection(collectionID string) {
	if err := e.store.CascadeDeleteCollection(collectionID, true); err != nil {
		e.log.Errorw("failed to roll back partially seeded collection", "collection_id", collectionID, "error", err)
	}
}
