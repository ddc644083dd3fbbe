// Package database persists resolution-run metadata in a local SQLite
// archive so successive generated rule-sets can be audited and compared.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"geowall/internal/domain"
)

var DB *gorm.DB

type Config struct {
	ExistingDB  *gorm.DB
	Dialector   gorm.Dialector
	Logger      gormlogger.Interface
	AutoMigrate bool
}

type Option func(*Config)

// WithExistingDB reuses an already-open connection (tests).
func WithExistingDB(db *gorm.DB) Option {
	return func(cfg *Config) { cfg.ExistingDB = db }
}

// WithSQLiteFile opens (creating if needed) the archive at the given path.
func WithSQLiteFile(path string) Option {
	return func(cfg *Config) { cfg.Dialector = sqlite.Open(path) }
}

func defaultConfig() Config {
	return Config{
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
		AutoMigrate: true,
	}
}

func SetupDB(opts ...Option) (*gorm.DB, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.ExistingDB != nil:
		DB = cfg.ExistingDB
	case cfg.Dialector != nil:
		gormCfg := &gorm.Config{}
		if cfg.Logger != nil {
			gormCfg.Logger = cfg.Logger
		}
		db, err := gorm.Open(cfg.Dialector, gormCfg)
		if err != nil {
			return nil, fmt.Errorf("database: open connection: %w", err)
		}
		DB = db
	default:
		return nil, fmt.Errorf("database: no dialector or existing connection provided")
	}

	if cfg.AutoMigrate {
		if err := DB.AutoMigrate(&domain.ResolutionRun{}, &domain.RunCountry{}); err != nil {
			return nil, fmt.Errorf("database: auto migrate: %w", err)
		}
		log.Debug("Archive migration completed")
	}

	return DB, nil
}

// SetupArchive prepares the archive file's directory and opens it.
func SetupArchive(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("database: create archive directory %s: %w", dir, err)
		}
	}
	return SetupDB(WithSQLiteFile(path))
}
