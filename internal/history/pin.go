package history

import (
	"fmt"

	"github.com/clipvault/clipvault/internal/model"
)

// SetPinned applies the batch pin operation to ids: pinning assigns
// pinned_order_number = current max + index + 1 per id, in argument
// order; unpinning clears the flag and order for every id in one
// update.
func (e *Engine) SetPinned(ids []string, pinned bool) error {
	if len(ids) == 0 {
		return nil
	}
	if !pinned {
		if err := e.store.BulkUpdateHistoryByIDs(ids, map[string]interface{}{
			"is_pinned":           false,
			"pinned_order_number": 0,
		}); err != nil {
			return fmt.Errorf("history: set pinned: %w", err)
		}
		return nil
	}

	max, err := e.maxPinnedOrder()
	if err != nil {
		return fmt.Errorf("history: set pinned: %w", err)
	}
	for i, id := range ids {
		rec, err := e.store.GetHistoryRecord(id)
		if err != nil {
			return fmt.Errorf("history: set pinned: %w", err)
		}
		rec.IsPinned = true
		rec.PinnedOrderNumber = max + i + 1
		if err := e.store.SaveHistoryRecord(rec); err != nil {
			return fmt.Errorf("history: set pinned: %w", err)
		}
	}
	return nil
}

func (e *Engine) maxPinnedOrder() (int, error) {
	recs, err := e.ListPinned()
	if err != nil {
		return 0, err
	}
	max := 0
	for _, r := range recs {
		if r.PinnedOrderNumber > max {
			max = r.PinnedOrderNumber
		}
	}
	return max, nil
}

// ListPinned returns every pinned record ordered by pinned_order_number.
func (e *Engine) ListPinned() ([]*model.HistoryRecord, error) {
	all, err := e.store.ListHistory(0, 0)
	if err != nil {
		return nil, err
	}
	var pinned []*model.HistoryRecord
	for _, r := range all {
		if r.IsPinned {
			pinned = append(pinned, r)
		}
	}
	sortByPinnedOrder(pinned)
	return pinned, nil
}

func sortByPinnedOrder(recs []*model.HistoryRecord) {
	for i := 1; i < len(recs); i++ {
		j := i
		for j > 0 && recs[j-1].PinnedOrderNumber > recs[j].PinnedOrderNumber {
			recs[j-1], recs[j] = recs[j], recs[j-1]
			j--
		}
	}
}

// MovePinnedUp swaps id with its immediate predecessor in pinned order.
func (e *Engine) MovePinnedUp(id string) error {
	return e.movePinned(id, -1)
}

// MovePinnedDown swaps id with its immediate successor in pinned order.
func (e *Engine) MovePinnedDown(id string) error {
	return e.movePinned(id, 1)
}

func (e *Engine) movePinned(id string, dir int) error {
	pinned, err := e.ListPinned()
	if err != nil {
		return fmt.Errorf("history: move pinned: %w", err)
	}
	idx := -1
	for i, r := range pinned {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("history: move pinned: %w", ErrRecordNotPinned)
	}
	otherIdx := idx + dir
	if otherIdx < 0 || otherIdx >= len(pinned) {
		return nil // already at the boundary, a no-op
	}
	return e.store.SwapHistoryPinnedOrder(pinned[idx].ID, pinned[otherIdx].ID)
}

// UnpinAll clears every pinned flag and resets ordering in one bulk
// update.
func (e *Engine) UnpinAll() error {
	pinned, err := e.ListPinned()
	if err != nil {
		return fmt.Errorf("history: unpin all: %w", err)
	}
	ids := make([]string, len(pinned))
	for i, r := range pinned {
		ids[i] = r.ID
	}
	if err := e.store.BulkUpdateHistoryByIDs(ids, map[string]interface{}{
		"is_pinned":           false,
		"pinned_order_number": 0,
	}); err != nil {
		return fmt.Errorf("history: unpin all: %w", err)
	}
	return nil
}

// SetFavorite toggles the favorite flag directly (manual star/unstar, as
// opposed to the automatic double-copy rule in touchDuplicate).
func (e *Engine) SetFavorite(id string, favorite bool) (*model.HistoryRecord, error) {
	rec, err := e.store.GetHistoryRecord(id)
	if err != nil {
		return nil, fmt.Errorf("history: set favorite: %w", err)
	}
	rec.IsFavorite = favorite
	if err := e.store.SaveHistoryRecord(rec); err != nil {
		return nil, fmt.Errorf("history: set favorite: %w", err)
	}
	return rec, nil
}

// SetMasked toggles manual masking on a record.
func (e *Engine) SetMasked(id string, masked bool) (*model.HistoryRecord, error) {
	rec, err := e.store.GetHistoryRecord(id)
	if err != nil {
		return nil, fmt.Errorf("history: set masked: %w", err)
	}
	rec.IsMasked = masked
	if err := e.store.SaveHistoryRecord(rec); err != nil {
		return nil, fmt.Errorf("history: set masked: %w", err)
	}
	return rec, nil
}
