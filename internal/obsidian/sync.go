// Package obsidian exports history records into an Obsidian vault as
// per-day markdown notes. It is an auxiliary peripheral: the history
// engine only sees the Exporter interface below, and the ticker-driven
// sync loop runs outside the capture path.
package obsidian

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
)

// Exporter is the read-only history collaborator the sync service needs;
// internal/history.Engine satisfies it via ExportCandidates.
type Exporter interface {
	ExportCandidates(since time.Time, limit int) ([]*model.HistoryRecord, error)
}

// Config holds configuration for the Obsidian vault sync service.
type Config struct {
	VaultPath    string
	SyncInterval time.Duration
}

// exportBatchLimit bounds how many records one sync tick pulls.
const exportBatchLimit = 200

// SyncService periodically writes clipboard history into dated markdown
// notes under a vault's Clipboard/ folder.
type SyncService struct {
	exporter Exporter

	mu        sync.RWMutex
	vaultPath string

	ticker *time.Ticker
	done   chan struct{}

	lastSync time.Time
	log      *zap.SugaredLogger
}

// New builds a SyncService rooted at config.VaultPath, which must already
// exist.
func New(exporter Exporter, config Config, log *zap.SugaredLogger) (*SyncService, error) {
	if config.VaultPath == "" {
		return nil, fmt.Errorf("obsidian: vault path is required")
	}
	if _, err := os.Stat(config.VaultPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("obsidian: vault path does not exist: %s", config.VaultPath)
	}
	if config.SyncInterval <= 0 {
		return nil, fmt.Errorf("obsidian: sync interval must be positive, got %v", config.SyncInterval)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &SyncService{
		exporter:  exporter,
		vaultPath: config.VaultPath,
		ticker:    time.NewTicker(config.SyncInterval),
		done:      make(chan struct{}),
		log:       log,
	}, nil
}

// UpdateVaultPath swaps the vault directory while the service is running.
func (s *SyncService) UpdateVaultPath(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("obsidian: new vault path does not exist: %s", path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Infow("obsidian: vault path updated", "from", s.vaultPath, "to", path)
	s.vaultPath = path
	return nil
}

// Start runs an initial sync, then continues on SyncInterval until ctx is
// canceled or Stop is called.
func (s *SyncService) Start(ctx context.Context, since time.Time) {
	s.lastSync = since
	s.log.Infow("obsidian: sync service starting", "vault", s.currentVaultPath())
	if err := s.sync(ctx); err != nil {
		s.log.Warnw("obsidian: initial sync failed", "error", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case <-s.ticker.C:
				if err := s.sync(ctx); err != nil {
					s.log.Warnw("obsidian: sync failed", "error", err)
				}
			}
		}
	}()
}

// Stop halts the sync loop.
func (s *SyncService) Stop() {
	s.ticker.Stop()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *SyncService) currentVaultPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vaultPath
}

// sync exports every record touched since the last sync into that day's
// markdown note, then advances the watermark.
func (s *SyncService) sync(ctx context.Context) error {
	vaultPath := s.currentVaultPath()
	records, err := s.exporter.ExportCandidates(s.lastSync, exportBatchLimit)
	if err != nil {
		return fmt.Errorf("obsidian: listing candidates: %w", err)
	}
	s.log.Infow("obsidian: sync tick", "vault", vaultPath, "candidates", len(records))

	clipboardDir := filepath.Join(vaultPath, "Clipboard")
	if err := os.MkdirAll(clipboardDir, 0o755); err != nil {
		return fmt.Errorf("obsidian: creating clipboard dir: %w", err)
	}

	latest := s.lastSync
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.writeEntry(clipboardDir, rec); err != nil {
			return fmt.Errorf("obsidian: writing entry %s: %w", rec.ID, err)
		}
		if rec.UpdatedAt.After(latest) {
			latest = rec.UpdatedAt
		}
	}
	s.lastSync = latest.Add(time.Millisecond)
	return nil
}

func (s *SyncService) writeEntry(clipboardDir string, rec *model.HistoryRecord) error {
	filename := fmt.Sprintf("%s.md", rec.CreatedAt.Format("2006-01-02"))
	path := filepath.Join(clipboardDir, filename)

	entryBody := rec.Value
	if rec.Kind == model.KindImage && len(rec.ImageLowResBytes) > 0 {
		assetsDir := filepath.Join(clipboardDir, "assets")
		if err := os.MkdirAll(assetsDir, 0o755); err != nil {
			return fmt.Errorf("creating assets dir: %w", err)
		}
		imageName := fmt.Sprintf("%s-%s.png", rec.CreatedAt.Format("20060102-150405"), rec.ID)
		imagePath := filepath.Join(assetsDir, imageName)
		if err := os.WriteFile(imagePath, rec.ImageLowResBytes, 0o644); err != nil {
			return fmt.Errorf("writing image: %w", err)
		}
		entryBody = fmt.Sprintf("![[%s]]", filepath.Join("assets", imageName))
	}

	entry := fmt.Sprintf("\n## %s\n---\nsource: %s\ntags: [clipboard%s]\nkind: %s\n---\n\n%s\n",
		rec.CreatedAt.Format("15:04:05"),
		rec.CopiedFromApp,
		formatTags(rec),
		rec.Kind,
		entryBody,
	)

	existing, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading existing note: %w", err)
		}
		header := fmt.Sprintf("# %s\n", rec.CreatedAt.Format("2006-01-02"))
		return os.WriteFile(path, []byte(header+entry), 0o644)
	}
	return os.WriteFile(path, append(existing, []byte(entry)...), 0o644)
}

// formatTags renders a record's content-kind flags as extra frontmatter
// tags.
func formatTags(rec *model.HistoryRecord) string {
	var tags []string
	switch {
	case rec.IsCode:
		tags = append(tags, "code")
	case rec.IsLink:
		tags = append(tags, "link")
	case rec.IsImage:
		tags = append(tags, "image")
	}
	if rec.HasMaskedWords || rec.IsMasked {
		tags = append(tags, "masked")
	}
	if len(tags) == 0 {
		return ""
	}
	return ", " + strings.Join(tags, ", ")
}
