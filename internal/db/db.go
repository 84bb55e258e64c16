package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sentry/internal/config"
	"sentry/internal/logger"
	"sentry/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database. Errors coming back from the
// driver are translated to gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(cfg.DatabaseURL))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.DBLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// sqlite has a single writer. Every new connection to ":memory:" is also
	// a fresh, empty database, so one connection serves all callers.
	if cfg.DBDriver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Get().Info().Str("driver", cfg.DBDriver).Msg("database connection established")
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Group{},
		&models.GroupBookmark{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	logger.Get().Info().Msg("database migration completed")
	return nil
}

// SeedProject makes sure a project with the given slug exists.
func SeedProject(db *gorm.DB, slug string) error {
	if slug == "" {
		return nil
	}
	var project models.Project
	err := db.Where("slug = ?", slug).First(&project).Error
	if err == nil {
		logger.Get().Debug().Str("slug", slug).Msg("project already seeded, skipping")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	project = models.Project{Slug: slug, Name: slug}
	if err := db.Create(&project).Error; err != nil {
		return fmt.Errorf("seed project %s: %w", slug, err)
	}
	logger.Get().Info().Str("slug", slug).Uint("project_id", project.ID).Msg("initial project created")
	return nil
}

// sqliteDSN makes file-backed databases take the write lock when a
// transaction begins and wait for it instead of failing with
// "database is locked" when another process holds it.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, ":memory:") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_txlock=") {
		dsn += sep + "_txlock=immediate"
		sep = "&"
	}
	if !strings.Contains(dsn, "_busy_timeout=") {
		dsn += sep + "_busy_timeout=5000"
	}
	return dsn
}

// gormWriter receives only what passed gorm's own level filter
// (DB_LOG_LEVEL), so everything is logged at warn.
type gormWriter struct{}

func (gormWriter) Printf(format string, args ...interface{}) {
	logger.Get().Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger(level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch strings.ToLower(level) {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	return gormlogger.New(gormWriter{}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
