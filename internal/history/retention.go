package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/model"
	"github.com/clipvault/clipvault/internal/storage"
)

// RunScheduledRetention applies the configured auto-clear policy, if
// enabled, deleting records older than the configured window and their
// on-disk image files. A no-op when the policy is disabled.
func (e *Engine) RunScheduledRetention() error {
	if e.settings == nil || !e.settings.Bool(config.KeyIsAutoClearSettingsEnabled) {
		return nil
	}
	cutoff := retentionCutoff(e.settings)
	return e.DeleteOlderThan(cutoff)
}

// retentionCutoff computes the "older than" boundary from the duration
// type/value pair ( autoClearSettingsDurationType: "days" |
// "weeks" | "months"; autoClearSettingsDuration: integer count).
func retentionCutoff(s *config.Settings) time.Time {
	n := s.Int(config.KeyAutoClearSettingsDuration)
	if n <= 0 {
		n = 1
	}
	switch s.String(config.KeyAutoClearSettingsDurationType) {
	case "hour":
		return time.Now().Add(-time.Duration(n) * time.Hour)
	case "days":
		return time.Now().Add(-time.Duration(n) * 24 * time.Hour)
	case "weeks":
		return time.Now().Add(-time.Duration(n) * 7 * 24 * time.Hour)
	case "year":
		return time.Now().Add(-time.Duration(n) * 356 * 24 * time.Hour)
	default: // "months": 30 days per month, matching the source's literal mapping
		return time.Now().Add(-time.Duration(n) * 30 * 24 * time.Hour)
	}
}

// DeleteOlderThan removes every record last touched before cutoff,
// cleaning up any full-resolution image files those records owned.
func (e *Engine) DeleteOlderThan(cutoff time.Time) error {
	victims, err := e.store.DeleteHistoryOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("history: delete older than: %w", err)
	}
	e.cleanupImageFiles(victims)
	return nil
}

// DeleteNewerThan removes every record last touched after cutoff
// (delete_recent), cleaning up owned image files.
func (e *Engine) DeleteNewerThan(cutoff time.Time) error {
	victims, err := e.store.DeleteHistoryNewerThan(cutoff)
	if err != nil {
		return fmt.Errorf("history: delete newer than: %w", err)
	}
	e.cleanupImageFiles(victims)
	return nil
}

func (e *Engine) cleanupImageFiles(victims []*model.HistoryRecord) {
	for _, v := range victims {
		if v.ImagePath == "" {
			continue
		}
		abs := storage.ToAbsolute(e.store.BaseDir(), v.ImagePath)
		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			e.log.Warnw("failed to remove retired image file", "path", abs, "error", err)
			continue
		}
		// os.Remove on a directory only succeeds if it's empty, so this is
		// a no-op (with an ignorable error) whenever siblings remain.
		_ = os.Remove(filepath.Dir(abs))
	}
}
