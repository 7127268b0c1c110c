package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/clipvault/clipvault/internal/model"
)

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrIO, err)
}

// CreateHistoryRecord inserts a new history record.
func (s *Store) CreateHistoryRecord(r *model.HistoryRecord) error {
	return translate(s.db.Create(r).Error)
}

// GetHistoryRecord fetches one record by id.
func (s *Store) GetHistoryRecord(id string) (*model.HistoryRecord, error) {
	var r model.HistoryRecord
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// SaveHistoryRecord persists mutations to an existing record (touch on
// dedup, pin/favorite/masking toggles).
func (s *Store) SaveHistoryRecord(r *model.HistoryRecord) error {
	return translate(s.db.Save(r).Error)
}

// DeleteHistoryRecord removes a record by id.
func (s *Store) DeleteHistoryRecord(id string) error {
	return translate(s.db.Delete(&model.HistoryRecord{}, "id = ?", id).Error)
}

// RecentHistoryByHash returns up to limit most-recently-updated records
// matching the given content hash column (value_hash for text, image_hash
// for image), newest first; backs the dedup lookup in internal/history.
func (s *Store) RecentHistoryByHash(kind, hashColumn, hash string, limit int) ([]*model.HistoryRecord, error) {
	var records []*model.HistoryRecord
	err := s.db.Where("kind = ? AND "+hashColumn+" = ?", kind, hash).
		Order("updated_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, translate(err)
	}
	return records, nil
}

// ListHistory returns records newest-first with pagination.
func (s *Store) ListHistory(limit, offset int) ([]*model.HistoryRecord, error) {
	var records []*model.HistoryRecord
	q := s.db.Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, translate(err)
	}
	return records, nil
}

// DeleteHistoryOlderThan removes records whose updated_at predates
// cutoff, returning the deleted rows so callers can clean up image
// files.
func (s *Store) DeleteHistoryOlderThan(cutoff time.Time) ([]*model.HistoryRecord, error) {
	return s.deleteHistoryWhere("updated_at < ?", cutoff)
}

// DeleteHistoryNewerThan is the symmetric counterpart used for
// delete_recent.
func (s *Store) DeleteHistoryNewerThan(cutoff time.Time) ([]*model.HistoryRecord, error) {
	return s.deleteHistoryWhere("updated_at > ?", cutoff)
}

func (s *Store) deleteHistoryWhere(cond string, arg interface{}) ([]*model.HistoryRecord, error) {
	var victims []*model.HistoryRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(cond, arg).Find(&victims).Error; err != nil {
			return err
		}
		if len(victims) == 0 {
			return nil
		}
		ids := make([]string, len(victims))
		for i, v := range victims {
			ids[i] = v.ID
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.HistoryRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("history_id IN ?", ids).Delete(&model.LinkMetadata{}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return victims, nil
}

// CreateItem inserts a new clip/menu/board/folder/separator item.
func (s *Store) CreateItem(it *model.Item) error {
	return translate(s.db.Create(it).Error)
}

// GetItem fetches an item by id.
func (s *Store) GetItem(id string) (*model.Item, error) {
	var it model.Item
	if err := s.db.First(&it, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

// SaveItem persists full-row mutations to an item.
func (s *Store) SaveItem(it *model.Item) error {
	return translate(s.db.Save(it).Error)
}

// DeleteItem hard-deletes an item row.
func (s *Store) DeleteItem(id string) error {
	return translate(s.db.Delete(&model.Item{}, "id = ?", id).Error)
}

// CreateCollection inserts a new collection.
func (s *Store) CreateCollection(c *model.Collection) error {
	return translate(s.db.Create(c).Error)
}

// GetCollection fetches a collection by id.
func (s *Store) GetCollection(id string) (*model.Collection, error) {
	var c model.Collection
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// SelectedCollection returns the collection flagged is_selected.
func (s *Store) SelectedCollection() (*model.Collection, error) {
	var c model.Collection
	if err := s.db.Where("is_selected = ?", true).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// CreateTab inserts a new tab.
func (s *Store) CreateTab(t *model.Tab) error {
	return translate(s.db.Create(t).Error)
}

// ListTabs returns a collection's tabs in authoritative order.
func (s *Store) ListTabs(collectionID string) ([]*model.Tab, error) {
	var tabs []*model.Tab
	err := s.db.Where("collection_id = ?", collectionID).
		Order("tab_order_number ASC").Find(&tabs).Error
	if err != nil {
		return nil, translate(err)
	}
	return tabs, nil
}

// UpsertLinkMetadata creates or replaces the cached preview for a URL
// owner (item or history record).
func (s *Store) UpsertLinkMetadata(lm *model.LinkMetadata) error {
	return translate(s.db.Save(lm).Error)
}

// GetLinkMetadataByHistoryIDs fetches the cached link previews owned by
// the given history records, keyed by history_id, for the left-join the
// history list view performs against LinkMetadata.
func (s *Store) GetLinkMetadataByHistoryIDs(ids []string) (map[string]*model.LinkMetadata, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []*model.LinkMetadata
	if err := s.db.Where("history_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make(map[string]*model.LinkMetadata, len(rows))
	for _, r := range rows {
		out[r.HistoryID] = r
	}
	return out, nil
}

// GetSetting returns a single persisted setting row, if any.
func (s *Store) GetSetting(name string) (string, bool, error) {
	var row model.Setting
	err := s.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, translate(err)
	}
	return row.Value, true, nil
}

// AllSettings returns every persisted setting row as a plain map, used to
// seed internal/config.Settings at startup.
func (s *Store) AllSettings() (map[string]string, error) {
	var rows []model.Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, translate(err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Value
	}
	return out, nil
}

// PutSetting upserts one setting row.
func (s *Store) PutSetting(name, value string) error {
	row := model.Setting{Name: name, Value: value}
	return translate(s.db.Save(&row).Error)
}
