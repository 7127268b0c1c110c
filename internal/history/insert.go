// Package history implements the history engine: dedup/insert, masking
// on read, pin/favorite ordering, query/filter, and retention.
package history

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/classify"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/imaging"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
	"github.com/clipvault/clipvault/pkg/ids"
)

// recentTextWindow and recentImageWindow are the dedup lookback sizes,
// kept as fixed constants rather than scaled by history size.
const (
	recentTextWindow  = 10
	recentImageWindow = 1000
)

// favoriteWindowMin and favoriteWindowMax bound the double-copy
// auto-favorite interval.
const (
	favoriteWindowMin = 200 * time.Millisecond
	favoriteWindowMax = 1200 * time.Millisecond
)

// retentionSweepEvery triggers the scheduler after this many inserts.
const retentionSweepEvery = 200

// Engine is the History Engine, composing the Store with the retention
// scheduler and the insert counter.
type Engine struct {
	store    *storage.Store
	settings *config.Settings
	log      *zap.SugaredLogger

	insertCount int
}

// New builds a History Engine over store, reading retention and
// auto-favorite behavior from settings.
func New(store *storage.Store, settings *config.Settings, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{store: store, settings: settings, log: log}
}

// TextCapture is the input to InsertText: a classified text payload plus
// capture-time context.
type TextCapture struct {
	Value                      string
	Classification             classify.Classification
	CopiedFromApp              string
	ShouldAutoStarOnDoubleCopy bool
	TrimBeforeHashing          bool
}

// InsertText runs the dedup/insert path for a captured text value.
func (e *Engine) InsertText(c TextCapture) (*model.HistoryRecord, bool, error) {
	hashInput := c.Value
	if c.TrimBeforeHashing {
		hashInput = strings.TrimSpace(hashInput)
	}
	hash := sha1Hex(hashInput)

	existing, err := e.store.RecentHistoryByHash(model.KindText, "value_hash", hash, recentTextWindow)
	if err != nil {
		return nil, false, fmt.Errorf("history: looking up recent text hashes: %w", err)
	}

	if len(existing) > 0 {
		rec, err := e.touchDuplicate(existing[0], c.ShouldAutoStarOnDoubleCopy)
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}

	cl := c.Classification
	rec := &model.HistoryRecord{
		ID:               ids.New(),
		Kind:             model.KindText,
		Value:            cl.ValueForStorage,
		ValueHash:        hash,
		IsText:           cl.IsText,
		IsCode:           cl.IsCode,
		IsLink:           cl.IsLink,
		IsVideo:          cl.IsVideo,
		IsImage:          cl.IsImage,
		IsImageData:      cl.IsImageData,
		HasEmoji:         cl.HasEmoji,
		HasMaskedWords:   cl.HasMaskedWords,
		DetectedLanguage: cl.DetectedLanguage,
		Links:            model.StringList(cl.Links),
		CopiedFromApp:    c.CopiedFromApp,
	}
	if err := e.store.CreateHistoryRecord(rec); err != nil {
		return nil, false, fmt.Errorf("history: creating text record: %w", err)
	}
	e.afterInsert()
	return rec, true, nil
}

// ImageCapture is the input to InsertImage.
type ImageCapture struct {
	Raw                        []byte
	Width, Height              int
	CopiedFromApp              string
	ShouldAutoStarOnDoubleCopy bool
}

// InsertImage runs the dedup/insert path for a captured image.
func (e *Engine) InsertImage(c ImageCapture) (*model.HistoryRecord, bool, error) {
	id := ids.New()
	canon, err := imaging.Canonicalize(e.store.BaseDir(), "clipboard-images", id, "png", c.Raw, c.Width, c.Height)
	if err != nil {
		// Image decoding failure: the capture event is dropped, no record
		// created.
		return nil, false, fmt.Errorf("history: canonicalizing image: %w", err)
	}

	existing, err := e.store.RecentHistoryByHash(model.KindImage, "image_hash", canon.PerceptualHash, recentImageWindow)
	if err != nil {
		return nil, false, fmt.Errorf("history: looking up recent image hashes: %w", err)
	}
	if len(existing) > 0 {
		rec, err := e.touchDuplicate(existing[0], c.ShouldAutoStarOnDoubleCopy)
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil
	}

	rec := &model.HistoryRecord{
		ID:                 id,
		Kind:               model.KindImage,
		ImagePath:          canon.FullPath,
		ImageLowResBytes:   canon.PreviewPNG,
		ImageWidth:         canon.Width,
		ImageHeight:        canon.Height,
		ImagePreviewHeight: canon.PreviewHeight,
		ImageHash:          canon.PerceptualHash,
		IsImage:            true,
		CopiedFromApp:      c.CopiedFromApp,
	}
	if err := e.store.CreateHistoryRecord(rec); err != nil {
		return nil, false, fmt.Errorf("history: creating image record: %w", err)
	}
	e.afterInsert()
	return rec, true, nil
}

// touchDuplicate updates updated_at on a rediscovered record and applies
// the double-copy auto-favorite rule.
func (e *Engine) touchDuplicate(existing *model.HistoryRecord, shouldAutoStar bool) (*model.HistoryRecord, error) {
	now := time.Now()
	prevUpdatedAt := existing.UpdatedAt

	if shouldAutoStar && !existing.IsFavorite {
		diff := now.Sub(prevUpdatedAt)
		if diff > favoriteWindowMin && diff < favoriteWindowMax {
			existing.IsFavorite = true
		}
	}
	existing.UpdatedAt = now

	if err := e.store.SaveHistoryRecord(existing); err != nil {
		return nil, fmt.Errorf("history: touching duplicate: %w", err)
	}
	return existing, nil
}

func (e *Engine) afterInsert() {
	e.insertCount++
	if e.insertCount >= retentionSweepEvery {
		e.insertCount = 0
		e.log.Infow("retention sweep kicked by insert counter")
		if err := e.RunScheduledRetention(); err != nil {
			e.log.Errorw("retention sweep failed", "error", err)
		}
	}
}

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
