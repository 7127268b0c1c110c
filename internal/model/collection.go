package model

import "time"

// Collection is a named workspace containing a menu tree and one or more
// tabs of clips. Exactly one Collection has IsSelected true at a time;
// selection is toggled atomically in internal/menu.
type Collection struct {
	ID         string `gorm:"primaryKey;size:21"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Name       string
	IsSelected bool `gorm:"index"`
}

func (Collection) TableName() string { return "collections" }

// Tab is an ordered workspace within a collection's clips view.
// TabOrderNumber is authoritative for display order.
type Tab struct {
	ID             string `gorm:"primaryKey;size:21"`
	CollectionID   string `gorm:"size:21;index"`
	Name           string
	TabOrderNumber int
}

func (Tab) TableName() string { return "tabs" }
