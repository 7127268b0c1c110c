package model

import "time"

// HistoryRecord is a single observed clipboard value. Rows are append-only
// except for the pin/favorite/masking/ordering/touch-on-dedup mutations
// described in internal/history.
type HistoryRecord struct {
	ID        string `gorm:"primaryKey;size:21"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Kind string `gorm:"size:8;index"` // "text" or "image"

	Value     string `gorm:"type:text"`
	ValueHash string `gorm:"size:40;index"` // SHA-1 hex, text kind only

	ImagePath          string
	ImageLowResBytes   []byte `gorm:"type:blob"`
	ImageWidth         int
	ImageHeight        int
	ImagePreviewHeight int
	ImageHash          string `gorm:"size:16;index"` // base64, 64-bit phash

	IsText         bool
	IsCode         bool
	IsLink         bool
	IsVideo        bool
	IsImage        bool
	IsImageData    bool
	HasEmoji       bool
	HasMaskedWords bool
	IsMasked       bool

	DetectedLanguage string     `gorm:"size:16"`
	Links            StringList `gorm:"type:json"`

	IsPinned          bool `gorm:"index"`
	PinnedOrderNumber int
	IsFavorite        bool `gorm:"index"`

	CopiedFromApp string
}

func (HistoryRecord) TableName() string { return "history_records" }

const (
	KindText  = "text"
	KindImage = "image"
)
