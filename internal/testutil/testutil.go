// Package testutil opens throwaway SQLite stores migrated with the real
// migrations.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"go-artisan-pricing/internal/model"
	"go-artisan-pricing/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated database that lives in t's temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "pricing.db")
	db, err := database.Connect(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      dsn,
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if _, err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewOwner inserts an owner account and returns its id.
func NewOwner(t testing.TB, db *gorm.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	user := model.User{
		Email:    id.String() + "@example.com",
		FullName: "Owner " + id.String()[:8],
		IsActive: true,
	}
	user.ID = id
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return id
}
