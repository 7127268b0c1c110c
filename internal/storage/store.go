// Package storage is the typed persistent store: schema, migrations,
// connection pool, and the specialized tree/ordering operations the rest
// of the system builds on.
package storage

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clipvault/clipvault/internal/model"
)

// Config describes where the store's files live. BaseDir is the data
// directory image paths are resolved relative to.
type Config struct {
	DBPath  string
	BaseDir string
}

// Store wraps the gorm connection pool and the resolved base directory
// used for path-placeholder substitution.
type Store struct {
	db      *gorm.DB
	baseDir string
	log     *zap.SugaredLogger
}

// Open creates/migrates the database at cfg.DBPath and returns a ready
// Store. Foreign keys and a ~3s busy-timeout are applied via PRAGMA on
// every connection, matching "customizer enables foreign
// keys, busy-timeout ≈ 3s".
func Open(cfg Config, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating base dir: %v", ErrIO, err)
	}

	dsn := cfg.DBPath + "?_foreign_keys=1&_busy_timeout=3000&_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", ErrIO, err)
	}

	if err := db.AutoMigrate(
		&model.HistoryRecord{},
		&model.Item{},
		&model.Collection{},
		&model.Tab{},
		&model.CollectionMenuEdge{},
		&model.CollectionClipEdge{},
		&model.LinkMetadata{},
		&model.Setting{},
	); err != nil {
		log.Errorw("schema migration failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrMigration, err)
	}

	log.Infow("store opened", "db_path", cfg.DBPath, "base_dir", cfg.BaseDir)
	return &Store{db: db, baseDir: cfg.BaseDir, log: log}, nil
}

// BaseDir returns the resolved data directory image paths are relative
// to.
func (s *Store) BaseDir() string { return s.baseDir }

// DB exposes the underlying gorm handle for packages (history, menu)
// that need transactional composition beyond the CRUD surface below.
func (s *Store) DB() *gorm.DB { return s.db }
