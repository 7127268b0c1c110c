package model

import "time"

// LinkMetadata is a cached link-preview for a URL surfaced from a
// HistoryRecord or an Item; exactly one of ItemID/HistoryID is set per
// row.
type LinkMetadata struct {
	ID          string `gorm:"primaryKey;size:21"`
	ItemID      string `gorm:"size:21;index"`
	HistoryID   string `gorm:"size:21;index"`
	CreatedAt   time.Time
	Title       string
	Description string `gorm:"type:text"`
	Image       string
	Favicon     string
	Domain      string

	AudioURL      string
	AudioDuration int
}

func (LinkMetadata) TableName() string { return "link_metadata" }

// Setting is one process-wide global key/value entry. Value is stored as
// text and interpreted by internal/config's typed accessors (bool/int/
// string variants).
type Setting struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value string `gorm:"type:text"`
}

func (Setting) TableName() string { return "settings" }
