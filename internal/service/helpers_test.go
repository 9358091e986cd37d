package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/middleware"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testMeals = []model.MealLabel{"Breakfast", "Lunch"}

// --- テストヘルパー関数 ---
// setupTestDB はテストごとに独立したインメモリ sqlite を作り、マイグレーションします
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

// testContext はログを捨てるロガー入りのコンテキスト
func testContext() context.Context {
	return middleware.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createTenant(t *testing.T, db *gorm.DB, email string) uuid.UUID {
	t.Helper()
	tenant := &model.Tenant{TenantID: uuid.New(), Name: "tester", Email: email}
	require.NoError(t, repository.NewGormTenantRepository().Create(context.Background(), db, tenant))
	return tenant.TenantID
}

// b12Template は朝に B12 だけのテンプレート (在庫 10)
func b12Template() *PlanTemplate {
	return &PlanTemplate{
		Morning:   []string{"B12"},
		Inventory: map[string]int{"B12": 10},
	}
}

type testServices struct {
	db     *gorm.DB
	broker *events.Broker
	plan   PlanService
	day    *dayService
	stats  *statsService
}

func newTestServices(t *testing.T, tmpl *PlanTemplate, alerter *StockAlerter) *testServices {
	t.Helper()
	db := setupTestDB(t)
	broker := events.NewBroker(32)
	planRepo := repository.NewGormPlanRepository()
	dayRepo := repository.NewGormDayRepository()
	engine := habit.NewEngine(testMeals)

	return &testServices{
		db:     db,
		broker: broker,
		plan:   NewPlanService(db, planRepo, tmpl, 30, alerter, broker),
		day:    NewDayService(db, planRepo, dayRepo, tmpl, engine, alerter, broker, time.UTC).(*dayService),
		stats:  NewStatsService(db, planRepo, dayRepo, tmpl, engine, time.UTC).(*statsService),
	}
}

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }
