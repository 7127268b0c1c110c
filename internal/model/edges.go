package model

// CollectionMenuEdge places an Item in the tray-menu forest of a
// Collection. (collection_id, item_id) identifies the edge; parent_id is
// nullable (empty string) for root-level entries.
type CollectionMenuEdge struct {
	CollectionID string `gorm:"primaryKey;size:21"`
	ItemID       string `gorm:"primaryKey;size:21"`
	ParentID     string `gorm:"size:21;index"`
	OrderNumber  int
}

func (CollectionMenuEdge) TableName() string { return "collection_menu_edges" }

// CollectionClipEdge places an Item in the clips/boards forest of one tab
// within a Collection. Siblings are scoped per (collection_id, tab_id,
// parent_id).
type CollectionClipEdge struct {
	CollectionID string `gorm:"primaryKey;size:21"`
	ItemID       string `gorm:"primaryKey;size:21"`
	TabID        string `gorm:"size:21;index"`
	ParentID     string `gorm:"size:21;index"`
	OrderNumber  int
}

func (CollectionClipEdge) TableName() string { return "collection_clip_edges" }
