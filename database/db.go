package database

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/http-api/models"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Connect opens the database configured by cfg and brings its schema up to date.
// PostgreSQL runs the embedded SQL migrations; SQLite is auto-migrated from the models.
func Connect(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(cfg),
	}

	switch cfg.DBDriver {
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := runMigrations(db, logger); err != nil {
			Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("Connected to the database successfully", "driver", cfg.DBDriver)
		return db, nil
	case "sqlite":
		db, err := OpenSQLite(cfg.DatabaseURL, gormCfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to the database successfully", "driver", cfg.DBDriver)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a SQLite database and auto-migrates every model.
// SQLite serialises writers anyway, so the pool is pinned to one connection;
// this also keeps ":memory:" databases alive for the lifetime of the handle.
func OpenSQLite(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true, Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func runMigrations(db *gorm.DB, logger *slog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("Database migrations applied successfully")
	return nil
}

func gormLogger(cfg *config.Config) gormlogger.Interface {
	level := gormlogger.Warn
	switch cfg.LogLevel {
	case "debug":
		level = gormlogger.Info
	case "error":
		level = gormlogger.Error
	}
	return gormlogger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
