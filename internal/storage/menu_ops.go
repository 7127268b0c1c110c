package storage

import (
	"gorm.io/gorm"

	"github.com/clipvault/clipvault/internal/model"
)

// SwapHistoryPinnedOrder exchanges pinned_order_number between two
// HistoryRecords, the only sanctioned way to reorder a pinned sequence.
func (s *Store) SwapHistoryPinnedOrder(aID, bID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var a, b model.HistoryRecord
		if err := tx.First(&a, "id = ?", aID).Error; err != nil {
			return err
		}
		if err := tx.First(&b, "id = ?", bID).Error; err != nil {
			return err
		}
		a.PinnedOrderNumber, b.PinnedOrderNumber = b.PinnedOrderNumber, a.PinnedOrderNumber
		if err := tx.Model(&model.HistoryRecord{}).Where("id = ?", a.ID).
			Update("pinned_order_number", a.PinnedOrderNumber).Error; err != nil {
			return err
		}
		return tx.Model(&model.HistoryRecord{}).Where("id = ?", b.ID).
			Update("pinned_order_number", b.PinnedOrderNumber).Error
	})
}

// SwapItemPinnedOrder is the Item-table counterpart of
// SwapHistoryPinnedOrder; pinned ordering is maintained independently per
// entity kind.
func (s *Store) SwapItemPinnedOrder(aID, bID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var a, b model.Item
		if err := tx.First(&a, "id = ?", aID).Error; err != nil {
			return err
		}
		if err := tx.First(&b, "id = ?", bID).Error; err != nil {
			return err
		}
		a.PinnedOrderNumber, b.PinnedOrderNumber = b.PinnedOrderNumber, a.PinnedOrderNumber
		if err := tx.Model(&model.Item{}).Where("id = ?", a.ID).
			Update("pinned_order_number", a.PinnedOrderNumber).Error; err != nil {
			return err
		}
		return tx.Model(&model.Item{}).Where("id = ?", b.ID).
			Update("pinned_order_number", b.PinnedOrderNumber).Error
	})
}

// EdgeMove is one entry of a reparent_and_renumber batch: move item_id to
// new_parent at new_order.
type EdgeMove struct {
	ItemID    string
	NewParent string
	NewOrder  int
}

// ReparentAndRenumberMenu applies a batch of menu-edge moves atomically.
// Sibling renumbering to keep order_number contiguous is the
// caller's responsibility (internal/menu computes it); this call only
// persists the already-computed target positions.
func (s *Store) ReparentAndRenumberMenu(collectionID string, moves []EdgeMove) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, mv := range moves {
			err := tx.Model(&model.CollectionMenuEdge{}).
				Where("collection_id = ? AND item_id = ?", collectionID, mv.ItemID).
				Updates(map[string]interface{}{
					"parent_id":    mv.NewParent,
					"order_number": mv.NewOrder,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ReparentAndRenumberClips is the CollectionClipEdge counterpart, scoped
// additionally by tab.
func (s *Store) ReparentAndRenumberClips(collectionID, tabID string, moves []EdgeMove) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, mv := range moves {
			err := tx.Model(&model.CollectionClipEdge{}).
				Where("collection_id = ? AND tab_id = ? AND item_id = ?", collectionID, tabID, mv.ItemID).
				Updates(map[string]interface{}{
					"parent_id":    mv.NewParent,
					"order_number": mv.NewOrder,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// MenuEdgesByCollection returns every menu edge for a collection,
// unordered; callers build the forest themselves.
func (s *Store) MenuEdgesByCollection(collectionID string) ([]*model.CollectionMenuEdge, error) {
	var edges []*model.CollectionMenuEdge
	if err := s.db.Where("collection_id = ?", collectionID).Find(&edges).Error; err != nil {
		return nil, translate(err)
	}
	return edges, nil
}

// ClipEdgesByTab returns every clip edge for one tab within a collection.
func (s *Store) ClipEdgesByTab(collectionID, tabID string) ([]*model.CollectionClipEdge, error) {
	var edges []*model.CollectionClipEdge
	if err := s.db.Where("collection_id = ? AND tab_id = ?", collectionID, tabID).Find(&edges).Error; err != nil {
		return nil, translate(err)
	}
	return edges, nil
}

// CreateMenuEdge inserts a single menu edge.
func (s *Store) CreateMenuEdge(e *model.CollectionMenuEdge) error {
	return translate(s.db.Create(e).Error)
}

// CreateClipEdge inserts a single clip edge.
func (s *Store) CreateClipEdge(e *model.CollectionClipEdge) error {
	return translate(s.db.Create(e).Error)
}

// DeleteMenuEdge removes one item's menu edge within a collection.
func (s *Store) DeleteMenuEdge(collectionID, itemID string) error {
	return translate(s.db.Where("collection_id = ? AND item_id = ?", collectionID, itemID).
		Delete(&model.CollectionMenuEdge{}).Error)
}

// BulkUpdateItemsByIDs applies the same column patch to every item in
// ids; backs the clip-side batch unpin in internal/menu.
func (s *Store) BulkUpdateItemsByIDs(ids []string, patch map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(s.db.Model(&model.Item{}).Where("id IN ?", ids).Updates(patch).Error)
}

// BulkUpdateHistoryByIDs is the HistoryRecord counterpart; backs the
// history engine's batch unpin and unpin-all operations.
func (s *Store) BulkUpdateHistoryByIDs(ids []string, patch map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	return translate(s.db.Model(&model.HistoryRecord{}).Where("id IN ?", ids).Updates(patch).Error)
}

// PinnedItems returns every pinned item ordered by pinned_order_number.
func (s *Store) PinnedItems() ([]*model.Item, error) {
	var items []*model.Item
	err := s.db.Where("is_pinned = ?", true).
		Order("pinned_order_number ASC").Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// SelectCollection atomically toggles is_selected so exactly one
// collection is selected, in a single UPDATE.
func (s *Store) SelectCollection(collectionID string) error {
	return translate(s.db.Model(&model.Collection{}).
		Where("1 = 1").
		Update("is_selected", gorm.Expr("id = ?", collectionID)).Error)
}

// CascadeDeleteCollection removes a collection, its menu edges and tabs,
// and optionally every item that only belongs to this collection.
func (s *Store) CascadeDeleteCollection(collectionID string, deleteItems bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if deleteItems {
			var edges []model.CollectionMenuEdge
			if err := tx.Where("collection_id = ?", collectionID).Find(&edges).Error; err != nil {
				return err
			}
			for _, e := range edges {
				var other int64
				if err := tx.Model(&model.CollectionMenuEdge{}).
					Where("item_id = ? AND collection_id <> ?", e.ItemID, collectionID).
					Count(&other).Error; err != nil {
					return err
				}
				if other == 0 {
					if err := tx.Delete(&model.Item{}, "id = ?", e.ItemID).Error; err != nil {
						return err
					}
				}
			}
		}
		if err := tx.Where("collection_id = ?", collectionID).Delete(&model.CollectionMenuEdge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", collectionID).Delete(&model.CollectionClipEdge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("collection_id = ?", collectionID).Delete(&model.Tab{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Collection{}, "id = ?", collectionID).Error
	})
}
