// Package storagetest opens a migrated in-memory SQLite storage for tests.
package storagetest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tutormatch/backend/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns an isolated, migrated in-memory database.
// A single connection serializes transactions the way row locks would.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return open(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), 1)
}

// NewFileDB returns a migrated database file in t.TempDir() behind a pool of
// conns connections, so concurrent transactions really contend for locks.
func NewFileDB(t testing.TB, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tutormatch.db")
	return open(t, fmt.Sprintf("file:%s?_busy_timeout=50", path), conns)
}

func open(t testing.TB, dsn string, conns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, storage.Migrate(db))
	return db
}

// NewService wraps NewDB in a storage service without Redis.
func NewService(t testing.TB) *storage.Service {
	return storage.NewStorageService(NewDB(t), nil)
}
