package repository

import (
	"context"
	"testing"

	"go_5_habit_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB はテストごとに独立したインメモリ sqlite を用意します
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func createTestTenant(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	tenant := &model.Tenant{TenantID: uuid.New(), Name: "tester", Email: uuid.NewString() + "@example.com"}
	require.NoError(t, NewGormTenantRepository().Create(context.Background(), db, tenant))
	return tenant.TenantID
}
