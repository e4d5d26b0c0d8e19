package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures Connect. Zero pool sizes fall back to 10 idle / 100 open.
type Options struct {
	Driver       string
	DSN          string
	MaxIdleConns int
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// Connect opens the store. Postgres is used in production; SQLite serves
// local development and tests.
func Connect(opts Options) (*gorm.DB, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch opts.Driver {
	case DriverPostgres, "":
		dialector = postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		})
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      newLogger,
		PrepareStmt: false,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName(opts.Driver), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 10
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 100
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping %s database: %w", driverName(opts.Driver), err)
	}
	return db, nil
}

// sqliteDSN adds the pragmas every connection needs unless the caller set
// its own query string.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
}

func driverName(driver string) string {
	if driver == "" {
		return DriverPostgres
	}
	return driver
}
