// Package testutil provides database handles and fixtures for package tests.
package testutil

import (
	"fmt"
	"os"
	"testing"

	"gigpay/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB returns a migrated, private in-memory sqlite database. The pool is
// limited to one connection so the database lives as long as the test and
// transactions serialise the way they would under a single writer.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := repositories.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// PostgresDB connects to TEST_POSTGRES_DSN and recreates the ledger tables.
// The test is skipped when the variable is unset.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open postgres: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("postgres handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(20)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Exec(`DROP TABLE IF EXISTS ledger_entries, jobs, contracts, profiles`).Error; err != nil {
		tb.Fatalf("reset schema: %v", err)
	}
	if err := repositories.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}
