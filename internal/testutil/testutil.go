package testutil

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pigfarm-manager/internal/database"
)

// OpenTestDB открывает in-memory SQLite с применённой схемой.
// Имя базы берётся из имени теста, чтобы тесты не делили данные.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(database.Opts{
		Driver:          "sqlite",
		DSN:             "file:" + name + "?mode=memory&cache=shared",
		ConnectAttempts: 1,
		LogLevel:        "silent",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// shared-cache SQLite не любит параллельную запись
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
