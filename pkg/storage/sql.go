package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/raykavin/stockcast/pkg/core"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// SQLStorage implements core.RunStorage on a SQL database via GORM
type SQLStorage struct {
	db *gorm.DB
}

// Config holds the connection pool settings
type Config struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a pool sized for a command line tool
func DefaultConfig() Config {
	return Config{
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

// FromSQLite opens (or creates) a SQLite database at path
func FromSQLite(path string, opts ...gorm.Option) (*SQLStorage, error) {
	return FromSQL(sqlite.Open(path), DefaultConfig(), opts...)
}

// FromSQL opens a database through any GORM dialect and migrates the run table
func FromSQL(dialect gorm.Dialector, config Config, opts ...gorm.Option) (*SQLStorage, error) {
	if len(opts) == 0 {
		opts = []gorm.Option{&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}}
	}

	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err = db.AutoMigrate(&core.Run{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLStorage{db: db}, nil
}

// SaveRun inserts or replaces a run, assigning an ID when empty
func (s *SQLStorage) SaveRun(run *core.Run) error {
	stamp(run)

	if result := s.db.Save(run); result.Error != nil {
		return fmt.Errorf("failed to save run: %w", result.Error)
	}
	return nil
}

// Run retrieves a single run by ID
func (s *SQLStorage) Run(id string) (*core.Run, error) {
	var run core.Run
	if result := s.db.First(&run, "id = ?", id); result.Error != nil {
		return nil, fmt.Errorf("run %s: %w", id, result.Error)
	}
	return &run, nil
}

// Runs retrieves runs oldest first, keeping those accepted by every filter
func (s *SQLStorage) Runs(filters ...core.RunFilter) ([]*core.Run, error) {
	var runs []*core.Run

	result := s.db.Order("created_at, id").Find(&runs)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch runs: %w", result.Error)
	}

	// filters are plain functions, so they run in memory
	return lo.Filter(runs, func(run *core.Run, _ int) bool {
		return accept(*run, filters)
	}), nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	return sqlDB.Close()
}
