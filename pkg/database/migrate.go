package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending migration for the driver the db was opened
// with and returns the resulting schema version.
func Migrate(ctx context.Context, db *gorm.DB, driver string) (int64, error) {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driverName(driver) {
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	default:
		return 0, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("get sql.DB: %w", err)
	}
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return 0, fmt.Errorf("open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return 0, fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return 0, fmt.Errorf("run goose up migrations: %w", err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}
