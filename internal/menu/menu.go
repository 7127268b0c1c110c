// Package menu implements the tray menu / clip-board tree operations:
// move, delete (with reparent), duplicate, collection selection, and
// the default collection/menu/tab seed built at first run.
package menu

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
	"github.com/clipvault/clipvault/pkg/ids"
)

// Engine operates on the menu/clip tree for one store.
type Engine struct {
	store *storage.Store
	log   *zap.SugaredLogger
}

// New builds a menu Engine over store.
func New(store *storage.Store, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{store: store, log: log}
}

// Store exposes the underlying store for read-only callers that project
// the menu tree (internal/tray) without duplicating its CRUD surface.
func (e *Engine) Store() *storage.Store { return e.store }

// Move is a single item's destination within its tree: new parent and
// position among its new siblings.
type Move struct {
	ItemID    string
	NewParent string
	NewOrder  int
}

// MoveMenuItems applies a batch of moves to a collection's menu tree,
// renumbering every affected parent's children so order_number stays
// contiguous from 0.
func (e *Engine) MoveMenuItems(collectionID string, moves []Move) error {
	edges, err := e.store.MenuEdgesByCollection(collectionID)
	if err != nil {
		return fmt.Errorf("menu: move items: %w", err)
	}
	byItem := make(map[string]*model.CollectionMenuEdge, len(edges))
	for _, ed := range edges {
		byItem[ed.ItemID] = ed
	}
	for _, mv := range moves {
		if ed, ok := byItem[mv.ItemID]; ok {
			ed.ParentID = mv.NewParent
			ed.OrderNumber = mv.NewOrder
		}
	}
	renumbered := renumberSiblings(edgeList(byItem))
	storeMoves := make([]storage.EdgeMove, 0, len(renumbered))
	for _, ed := range renumbered {
		storeMoves = append(storeMoves, storage.EdgeMove{
			ItemID: ed.ItemID, NewParent: ed.ParentID, NewOrder: ed.OrderNumber,
		})
	}
	if err := e.store.ReparentAndRenumberMenu(collectionID, storeMoves); err != nil {
		return fmt.Errorf("menu: move items: %w", err)
	}
	return nil
}

// MoveClips is the tab-scoped counterpart of MoveMenuItems.
func (e *Engine) MoveClips(collectionID, tabID string, moves []Move) error {
	edges, err := e.store.ClipEdgesByTab(collectionID, tabID)
	if err != nil {
		return fmt.Errorf("menu: move clips: %w", err)
	}
	byItem := make(map[string]*model.CollectionClipEdge, len(edges))
	for _, ed := range edges {
		byItem[ed.ItemID] = ed
	}
	for _, mv := range moves {
		if ed, ok := byItem[mv.ItemID]; ok {
			ed.ParentID = mv.NewParent
			ed.OrderNumber = mv.NewOrder
		}
	}
	clipEdgeList := make([]*model.CollectionClipEdge, 0, len(byItem))
	for _, ed := range byItem {
		clipEdgeList = append(clipEdgeList, ed)
	}
	renumbered := renumberClipSiblings(clipEdgeList)
	storeMoves := make([]storage.EdgeMove, 0, len(renumbered))
	for _, ed := range renumbered {
		storeMoves = append(storeMoves, storage.EdgeMove{
			ItemID: ed.ItemID, NewParent: ed.ParentID, NewOrder: ed.OrderNumber,
		})
	}
	if err := e.store.ReparentAndRenumberClips(collectionID, tabID, storeMoves); err != nil {
		return fmt.Errorf("menu: move clips: %w", err)
	}
	return nil
}

// renumberSiblings groups edges by parent and reassigns OrderNumber
// 0..n-1 within each group, preserving relative order.
func renumberSiblings(edges []*model.CollectionMenuEdge) []*model.CollectionMenuEdge {
	byParent := map[string][]*model.CollectionMenuEdge{}
	for _, ed := range edges {
		byParent[ed.ParentID] = append(byParent[ed.ParentID], ed)
	}
	for _, group := range byParent {
		sortByOrder(group)
		for i, ed := range group {
			ed.OrderNumber = i
		}
	}
	return edges
}

func sortByOrder(edges []*model.CollectionMenuEdge) {
	for i := 1; i < len(edges); i++ {
		j := i
		for j > 0 && edges[j-1].OrderNumber > edges[j].OrderNumber {
			edges[j-1], edges[j] = edges[j], edges[j-1]
			j--
		}
	}
}

// renumberClipSiblings is the CollectionClipEdge counterpart of
// renumberSiblings.
func renumberClipSiblings(edges []*model.CollectionClipEdge) []*model.CollectionClipEdge {
	byParent := map[string][]*model.CollectionClipEdge{}
	for _, ed := range edges {
		byParent[ed.ParentID] = append(byParent[ed.ParentID], ed)
	}
	for _, group := range byParent {
		for i := 1; i < len(group); i++ {
			j := i
			for j > 0 && group[j-1].OrderNumber > group[j].OrderNumber {
				group[j-1], group[j] = group[j], group[j-1]
				j--
			}
		}
		for i, ed := range group {
			ed.OrderNumber = i
		}
	}
	return edges
}

func edgeList(byItem map[string]*model.CollectionMenuEdge) []*model.CollectionMenuEdge {
	out := make([]*model.CollectionMenuEdge, 0, len(byItem))
	for _, ed := range byItem {
		out = append(out, ed)
	}
	return out
}

// DeleteMenuItem removes itemID from a collection's menu tree. Its
// direct children are inserted at the deleted node's own slot (in their
// existing relative order, starting right after it), and every sibling
// that sorted after the deleted node is shifted down by the number of
// repositioned children: the literal insert-at-slot-then-shift
// algorithm, not a by-group renumber-from-zero, so that two nodes
// reparented into a slot never collide with a pre-existing sibling's
// order_number regardless of incidental row order from the store.
func (e *Engine) DeleteMenuItem(collectionID, itemID string) error {
	edges, err := e.store.MenuEdgesByCollection(collectionID)
	if err != nil {
		return fmt.Errorf("menu: delete item: %w", err)
	}
	var target *model.CollectionMenuEdge
	for _, ed := range edges {
		if ed.ItemID == itemID {
			target = ed
			break
		}
	}
	if target == nil {
		return fmt.Errorf("menu: delete item: %w", storage.ErrNotFound)
	}

	var children, siblings []*model.CollectionMenuEdge
	for _, ed := range edges {
		switch {
		case ed.ItemID == itemID:
			// the deleted node itself
		case ed.ParentID == itemID:
			children = append(children, ed)
		case ed.ParentID == target.ParentID:
			siblings = append(siblings, ed)
		}
	}
	sortByOrder(children)

	storeMoves := make([]storage.EdgeMove, 0, len(children)+len(siblings))
	for i, child := range children {
		child.ParentID = target.ParentID
		child.OrderNumber = target.OrderNumber + i + 1
		storeMoves = append(storeMoves, storage.EdgeMove{
			ItemID: child.ItemID, NewParent: child.ParentID, NewOrder: child.OrderNumber,
		})
	}
	shift := len(children)
	if shift > 0 {
		for _, ed := range siblings {
			if ed.OrderNumber > target.OrderNumber {
				ed.OrderNumber += shift
				storeMoves = append(storeMoves, storage.EdgeMove{
					ItemID: ed.ItemID, NewParent: ed.ParentID, NewOrder: ed.OrderNumber,
				})
			}
		}
	}

	if len(storeMoves) > 0 {
		if err := e.store.ReparentAndRenumberMenu(collectionID, storeMoves); err != nil {
			return fmt.Errorf("menu: delete item: %w", err)
		}
	}
	if err := e.store.DeleteMenuEdge(collectionID, itemID); err != nil {
		return fmt.Errorf("menu: delete item: %w", err)
	}

	item, err := e.store.GetItem(itemID)
	if err != nil {
		return fmt.Errorf("menu: delete item: %w", err)
	}
	if item.Role == model.RoleClip {
		// A clip surfaced on the tray is never deleted when removed from
		// the menu; only its menu presence goes away.
		item.IsMenu = false
		return e.store.SaveItem(item)
	}
	return e.store.DeleteItem(itemID)
}

// Duplicate deep-copies itemID under a new id, prefixing its name with
// "Copy of ", and inserts the clone's edge at order_number 0 under the
// original's parent. The slot-0 insert is literal: pre-existing siblings
// keep their order numbers and the next MoveMenuItems pass renumbers
// the group contiguously.
func (e *Engine) Duplicate(collectionID, itemID string) (*model.Item, error) {
	orig, err := e.store.GetItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("menu: duplicate: %w", err)
	}
	clone := *orig
	clone.ID = ids.New()
	if !strings.HasPrefix(clone.Name, "Copy of ") {
		clone.Name = "Copy of " + clone.Name
	}
	if err := e.store.CreateItem(&clone); err != nil {
		return nil, fmt.Errorf("menu: duplicate: %w", err)
	}

	edges, err := e.store.MenuEdgesByCollection(collectionID)
	if err != nil {
		return nil, fmt.Errorf("menu: duplicate: %w", err)
	}
	var origEdge *model.CollectionMenuEdge
	for _, ed := range edges {
		if ed.ItemID == itemID {
			origEdge = ed
			break
		}
	}
	if origEdge == nil {
		return &clone, nil
	}

	newEdge := &model.CollectionMenuEdge{
		CollectionID: collectionID,
		ItemID:       clone.ID,
		ParentID:     origEdge.ParentID,
		OrderNumber:  0,
	}
	if err := e.store.CreateMenuEdge(newEdge); err != nil {
		return nil, fmt.Errorf("menu: duplicate: %w", err)
	}
	return &clone, nil
}

// SelectCollection wraps the atomic exclusive-select store operation.
func (e *Engine) SelectCollection(collectionID string) error {
	return e.store.SelectCollection(collectionID)
}

// SetClipsPinned applies the batch pin operation to items, mirroring the
// history engine's contract: pinning assigns pinned_order_number =
// current max + index + 1 per id in argument order, unpinning clears the
// flag and order for every id in one bulk update. Item and history pin
// sequences are ordered independently.
func (e *Engine) SetClipsPinned(ids []string, pinned bool) error {
	if len(ids) == 0 {
		return nil
	}
	if !pinned {
		if err := e.store.BulkUpdateItemsByIDs(ids, map[string]interface{}{
			"is_pinned":           false,
			"pinned_order_number": 0,
		}); err != nil {
			return fmt.Errorf("menu: set clips pinned: %w", err)
		}
		return nil
	}

	pinnedItems, err := e.store.PinnedItems()
	if err != nil {
		return fmt.Errorf("menu: set clips pinned: %w", err)
	}
	max := 0
	for _, it := range pinnedItems {
		if it.PinnedOrderNumber > max {
			max = it.PinnedOrderNumber
		}
	}
	for i, id := range ids {
		item, err := e.store.GetItem(id)
		if err != nil {
			return fmt.Errorf("menu: set clips pinned: %w", err)
		}
		item.IsPinned = true
		item.PinnedOrderNumber = max + i + 1
		if err := e.store.SaveItem(item); err != nil {
			return fmt.Errorf("menu: set clips pinned: %w", err)
		}
	}
	return nil
}
