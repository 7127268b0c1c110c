// Package capture turns platform.Event clipboard notifications into
// history inserts: exclusion checks, classification, image decoding, and
// history insert, in that order. Each clipboard-change callback runs
// that full path synchronously; there is no queue, and no event is ever
// dropped.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/classify"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/platform"
)

// Pipeline processes capture events one at a time. OS event emission is
// already serialized per clipboard; mu pins that invariant for backends
// that deliver from more than one goroutine, so dedup lookups and
// inserts never race each other.
type Pipeline struct {
	backend  platform.ClipboardBackend
	history  *history.Engine
	settings *config.Settings
	log      *zap.SugaredLogger

	mu sync.Mutex

	onRecord func(rec *model.HistoryRecord, isNew bool)
	onError  func(err error)
}

// OnRecord registers a callback invoked after every successful insert or
// dedup-touch, matching the "clipboard://clipboard-monitor/update" event
// contract: the UI shell is notified once classification, store write,
// and this notification have all happened in order.
func (p *Pipeline) OnRecord(fn func(rec *model.HistoryRecord, isNew bool)) {
	p.onRecord = fn
}

// OnError registers a callback invoked when a capture-path insert fails,
// matching "clipboard://clipboard-monitor/update/error".
func (p *Pipeline) OnError(fn func(err error)) {
	p.onError = fn
}

// New builds a capture Pipeline over backend, inserting into the given
// history engine using the given settings snapshot source.
func New(backend platform.ClipboardBackend, h *history.Engine, settings *config.Settings, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{
		backend:  backend,
		history:  h,
		settings: settings,
		log:      log,
	}
}

// Start subscribes to backend. Each change callback runs process
// synchronously on the delivering goroutine; the callback may block
// briefly on disk I/O and the store write.
func (p *Pipeline) Start() error {
	if err := p.backend.Start(func(ev platform.Event) {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.process(ev)
	}); err != nil {
		return fmt.Errorf("capture: starting backend: %w", err)
	}
	return nil
}

// Stop halts the backing backend. A callback already in flight finishes
// before the backend's delivery goroutine exits.
func (p *Pipeline) Stop() error {
	return p.backend.Stop()
}

func (p *Pipeline) process(ev platform.Event) {
	snap := p.settings.Snapshot()
	if snap[config.KeyIsHistoryEnabled] == "false" {
		return
	}

	switch ev.Kind {
	case platform.ContentText:
		p.processText(ev)
	case platform.ContentImage:
		p.processImage(ev)
	}
}

func (p *Pipeline) processText(ev platform.Event) {
	if p.isExcludedByApp(ev.SourceApp) {
		return
	}
	minLen := p.settings.Int(config.KeyClipTextMinLength)
	maxLen := p.settings.Int(config.KeyClipTextMaxLength)
	length := len([]rune(ev.Text))
	if length < minLen || (maxLen > 0 && length > maxLen) {
		return
	}
	if p.isExcludedByContent(ev.Text) {
		return
	}

	opts := classify.LanguageDetectOptions{
		ShouldDetectLanguage: p.settings.Bool(config.KeyIsHistoryDetectLanguageEnabled),
		MinLinesRequired:     p.settings.Int(config.KeyHistoryDetectLanguageMinLines),
		EnabledLanguages:     p.settings.CSV(config.KeyHistoryDetectLanguagesEnabledList),
		PrioritizedLanguages: p.settings.CSV(config.KeyHistoryDetectLanguagesPrioritizedList),
	}
	var maskWords []string
	if p.settings.Bool(config.KeyIsAutoMaskWordsListEnabled) {
		maskWords = p.settings.Lines(config.KeyAutoMaskWordsList)
	}
	cl := classify.Classify(ev.Text, opts, maskWords)

	rec, isNew, err := p.history.InsertText(history.TextCapture{
		Value:                      ev.Text,
		Classification:             cl,
		CopiedFromApp:              ev.SourceApp,
		ShouldAutoStarOnDoubleCopy: p.settings.Bool(config.KeyIsAutoFavoriteOnDoubleCopyEnabled),
		TrimBeforeHashing:          p.settings.Bool(config.KeyIsHistoryAutoTrimOnCapture),
	})
	if err != nil {
		p.log.Errorw("capture: inserting text record failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	if p.onRecord != nil {
		p.onRecord(rec, isNew)
	}
}

func (p *Pipeline) processImage(ev platform.Event) {
	if p.settings.Bool(config.KeyIsImageCaptureDisabled) {
		return
	}
	if p.isExcludedByApp(ev.SourceApp) {
		return
	}

	img, _, err := image.Decode(bytes.NewReader(ev.ImageRaw))
	if err != nil {
		p.log.Warnw("capture: discarding unrecognized image payload", "error", err)
		return
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	rec, isNew, err := p.history.InsertImage(history.ImageCapture{
		Raw:                        rgba.Pix,
		Width:                      b.Dx(),
		Height:                     b.Dy(),
		CopiedFromApp:              ev.SourceApp,
		ShouldAutoStarOnDoubleCopy: p.settings.Bool(config.KeyIsAutoFavoriteOnDoubleCopyEnabled),
	})
	if err != nil {
		p.log.Errorw("capture: inserting image record failed", "error", err)
		if p.onError != nil {
			p.onError(err)
		}
		return
	}
	if p.onRecord != nil {
		p.onRecord(rec, isNew)
	}
}

func (p *Pipeline) isExcludedByApp(sourceApp string) bool {
	if sourceApp == "" || !p.settings.Bool(config.KeyIsExclusionAppListEnabled) {
		return false
	}
	for _, app := range p.settings.Lines(config.KeyHistoryExclusionAppList) {
		if strings.EqualFold(app, sourceApp) {
			return true
		}
	}
	return false
}

func (p *Pipeline) isExcludedByContent(text string) bool {
	if !p.settings.Bool(config.KeyIsExclusionListEnabled) {
		return false
	}
	for _, needle := range p.settings.Lines(config.KeyHistoryExclusionList) {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
