// Package service composes the store, history engine, clip/menu model,
// capture pipeline, paste dispatcher, and tray projection into one
// aggregate handed to the HTTP/websocket handlers and the tray adapter,
// with interior rwlocks only where the sub-packages themselves need
// them. No package-level singletons.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/capture"
	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/history"
	"github.com/clipvault/clipvault/internal/menu"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/paste"
	"github.com/clipvault/clipvault/internal/platform"
	"github.com/clipvault/clipvault/internal/storage"
	"github.com/clipvault/clipvault/internal/tray"
)

// ChangeHandler is notified whenever a capture event inserts or touches
// a HistoryRecord, or when a clip-triggered command/web clip finishes:
// the in-process fan-out point for "clipboard://clipboard-monitor/update",
// "clipboard://clipboard-monitor/update/error", and
// "clips://clips-monitor/update".
type ChangeHandler interface {
	HandleHistoryChange(rec *model.HistoryRecord, isNew bool)
	HandleHistoryError(err error)
	HandleClipRun(item *model.Item)
}

// Options configures a new Service.
type Options struct {
	StorageConfig storage.Config
	Clipboard     platform.ClipboardBackend
	Input         platform.InputSynthesizer
	Access        platform.AccessibilityProbe
	Shell         paste.ShellService
	WebRequest    paste.WebRequestService
	WebScraping   paste.WebScrapingService
	Log           *zap.SugaredLogger
}

// Service is the process-wide aggregate: every sub-engine plus the
// handler fan-out list, guarded by a single mutex since registration is
// rare and every sub-engine already guards its own hot path.
type Service struct {
	Settings *config.Settings

	store            *storage.Store
	history          *history.Engine
	menu             *menu.Engine
	tray             *tray.Builder
	dispatch         *paste.Dispatcher
	capture          *capture.Pipeline
	clipboardBackend platform.ClipboardBackend

	log *zap.SugaredLogger

	mu        sync.RWMutex
	handlers  []ChangeHandler
	stopSched func()
}

// New opens the store, seeds the default collection on first run, and
// wires every sub-engine together. It does not start the capture
// pipeline or scheduler; call Start for that.
func New(opts Options) (*Service, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	store, err := storage.Open(opts.StorageConfig, log)
	if err != nil {
		return nil, fmt.Errorf("service: opening store: %w", err)
	}

	settings := config.New()
	if persisted, err := store.AllSettings(); err == nil {
		settings.Load(persisted)
	} else {
		log.Warnw("service: failed to load persisted settings, using defaults", "error", err)
	}

	historyEngine := history.New(store, settings, log)
	menuEngine := menu.New(store, log)
	trayBuilder := tray.NewBuilder(historyEngine, menuEngine, settings)
	dispatcher := paste.New(opts.Clipboard, opts.Input, opts.Access, opts.Shell, opts.WebRequest, opts.WebScraping, log)
	capturePipeline := capture.New(opts.Clipboard, historyEngine, settings, log)

	if _, err := menuEngine.EnsureDefaultCollection(); err != nil {
		return nil, fmt.Errorf("service: seeding default collection: %w", err)
	}

	svc := &Service{
		Settings:         settings,
		store:            store,
		history:          historyEngine,
		menu:             menuEngine,
		tray:             trayBuilder,
		dispatch:         dispatcher,
		capture:          capturePipeline,
		clipboardBackend: opts.Clipboard,
		log:              log,
	}

	capturePipeline.OnRecord(func(rec *model.HistoryRecord, isNew bool) {
		svc.mu.RLock()
		handlers := append([]ChangeHandler(nil), svc.handlers...)
		svc.mu.RUnlock()
		for _, h := range handlers {
			h.HandleHistoryChange(rec, isNew)
		}
	})
	capturePipeline.OnError(func(err error) {
		svc.mu.RLock()
		handlers := append([]ChangeHandler(nil), svc.handlers...)
		svc.mu.RUnlock()
		for _, h := range handlers {
			h.HandleHistoryError(err)
		}
	})

	return svc, nil
}

// RegisterHandler adds a new capture-event handler (e.g. the websocket
// hub).
func (s *Service) RegisterHandler(h ChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Start begins clipboard capture and the hourly retention scheduler.
func (s *Service) Start(ctx context.Context) error {
	if err := s.capture.Start(); err != nil {
		return fmt.Errorf("service: starting capture pipeline: %w", err)
	}
	s.mu.Lock()
	s.stopSched = s.history.StartScheduler(ctx)
	s.mu.Unlock()
	return nil
}

// Stop halts capture and the scheduler.
func (s *Service) Stop() error {
	s.mu.Lock()
	stop := s.stopSched
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	return s.capture.Stop()
}

// History returns the underlying History Engine for callers (the HTTP
// API) that need its full surface rather than a narrowed wrapper.
func (s *Service) History() *history.Engine { return s.history }

// Menu returns the underlying Clip/Menu Engine.
func (s *Service) Menu() *menu.Engine { return s.menu }

// Store returns the underlying Store, for callers that need direct CRUD
// (collections, tabs, settings) not already wrapped by History/Menu.
func (s *Service) Store() *storage.Store { return s.store }

// ActiveCollectionID returns the currently selected collection's id,
// refreshed from the store so a selection change made by another
// request is observed.
func (s *Service) ActiveCollectionID() (string, error) {
	c, err := s.store.SelectedCollection()
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// TrayProjection builds the current tray structure for the active
// collection.
func (s *Service) TrayProjection() (tray.Projection, error) {
	collectionID, err := s.ActiveCollectionID()
	if err != nil {
		return tray.Projection{}, fmt.Errorf("service: tray projection: %w", err)
	}
	return s.tray.Build(collectionID)
}

// PasteHistoryItem resolves a HistoryRecord by id and writes its value
// to the clipboard: PNG bytes for image records, the text value
// otherwise.
func (s *Service) PasteHistoryItem(id string, autoPaste bool) error {
	rec, err := s.store.GetHistoryRecord(id)
	if err != nil {
		return fmt.Errorf("service: paste history item: %w", err)
	}
	if rec.Kind == model.KindImage {
		png, err := s.readImageFile(rec.ImagePath)
		if err != nil {
			return fmt.Errorf("service: paste history item: %w", err)
		}
		return s.dispatch.PasteImage(png, autoPaste)
	}
	return s.dispatch.PasteText(rec.Value, autoPaste)
}

// PasteClip dispatches itemID per its clip kind, persisting command/
// web-request/web-scraping output and notifying ChangeHandlers of the
// resulting clips://clips-monitor/update event for those kinds.
func (s *Service) PasteClip(itemID string, autoPaste bool) (paste.Outcome, error) {
	item, err := s.store.GetItem(itemID)
	if err != nil {
		return paste.Outcome{}, fmt.Errorf("service: paste clip: %w", err)
	}

	var imagePNG []byte
	if item.ClipKind() == model.ClipKindImage {
		imagePNG, err = s.readImageFile(item.ImagePath)
		if err != nil {
			return paste.Outcome{}, fmt.Errorf("service: paste clip: %w", err)
		}
	}

	reqOpts := decodeRequestOptions(item.RequestOptions)
	formOpts := decodeFormTemplateOptions(item.FormTemplateOptions)

	currentClipboard, _ := s.currentClipboardText()

	outcome, runErr := s.dispatch.Paste(item, imagePNG, reqOpts, formOpts, currentClipboard, autoPaste)

	switch item.ClipKind() {
	case model.ClipKindCommand, model.ClipKindWebRequest, model.ClipKindWebScraping:
		item.CommandRequestOutput = outcome.Output
		if err := s.store.SaveItem(item); err != nil {
			s.log.Warnw("service: failed to persist command/request output", "item_id", itemID, "error", err)
		}
		s.mu.RLock()
		handlers := append([]ChangeHandler(nil), s.handlers...)
		s.mu.RUnlock()
		for _, h := range handlers {
			h.HandleClipRun(item)
		}
	}

	return outcome, runErr
}

func (s *Service) currentClipboardText() (string, error) {
	if s.clipboardBackend == nil {
		return "", nil
	}
	return s.clipboardBackend.ReadText()
}

// prePasteDelay is the platform-specific pause before a tray menu click
// dispatches its paste, giving focus time to return to the previously
// frontmost app: 3s on Windows, none elsewhere.
func prePasteDelay() time.Duration {
	if runtime.GOOS == "windows" {
		return 3 * time.Second
	}
	return 0
}

// HandleTrayRecentClick pastes a recent-history entry inline on the
// caller's goroutine; the operation is a clipboard write, fast enough
// for the systray callback.
func (s *Service) HandleTrayRecentClick(recordID string) {
	if err := s.PasteHistoryItem(recordID, true); err != nil {
		s.log.Warnw("service: tray recent-history paste failed", "record_id", recordID, "error", err)
	}
}

// HandleTrayMenuClick dispatches a clip click on a background goroutine
// after the platform pre-paste delay, so the OS tray event loop never
// blocks on sleep-and-synthesize.
func (s *Service) HandleTrayMenuClick(itemID string) {
	go func() {
		time.Sleep(prePasteDelay())
		if _, err := s.PasteClip(itemID, true); err != nil {
			s.log.Warnw("service: tray menu-item paste failed", "item_id", itemID, "error", err)
		}
	}()
}

// HandleTrayFixedAction applies one of the tray's fixed entries:
// open/unlock, quit, or toggle history capture. Quit is handled by the
// tray adapter itself (systray.Quit) and never reaches here.
func (s *Service) HandleTrayFixedAction(action tray.FixedAction) {
	switch action {
	case tray.ActionOpenOrUnlock:
		s.Settings.Set(config.KeyIsAppLocked, "false")
		if err := s.store.PutSetting(config.KeyIsAppLocked, "false"); err != nil {
			s.log.Warnw("service: failed to persist unlock", "error", err)
		}
	case tray.ActionToggleHistoryCapture:
		enabled := !s.Settings.Bool(config.KeyIsHistoryEnabled)
		value := strconv.FormatBool(enabled)
		s.Settings.Set(config.KeyIsHistoryEnabled, value)
		if err := s.store.PutSetting(config.KeyIsHistoryEnabled, value); err != nil {
			s.log.Warnw("service: failed to persist history-capture toggle", "error", err)
		}
	}
}

func (s *Service) readImageFile(storedPath string) ([]byte, error) {
	abs := storage.ToAbsolute(s.store.BaseDir(), storedPath)
	return os.ReadFile(abs)
}

func decodeRequestOptions(raw model.RawJSON) model.RequestOptions {
	var opts model.RequestOptions
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &opts)
	}
	return opts
}

func decodeFormTemplateOptions(raw model.RawJSON) model.FormTemplateOptions {
	var opts model.FormTemplateOptions
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &opts)
	}
	return opts
}
