package service

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB returns a file-backed sqlite database migrated with models, for
// tests that need the services to run real transactions.
func openTestDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().Local() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models...))
	return db
}

// rechazarInserts makes every later INSERT into tabla fail.
func rechazarInserts(t *testing.T, db *gorm.DB, tabla string) {
	t.Helper()
	require.NoError(t, db.Exec(fmt.Sprintf(
		`CREATE TRIGGER rechazar_%[1]s BEFORE INSERT ON "%[1]s" BEGIN SELECT RAISE(ABORT, 'insert rechazado'); END`,
		tabla)).Error)
}
