package handlers_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"go_5_habit_keep/internal/config"
	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/handlers"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"
	"go_5_habit_keep/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testApp はインメモリ sqlite の上に組み立てた本物のルーターです
type testApp struct {
	server *httptest.Server
	db     *gorm.DB
	broker *events.Broker
}

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

// testConfig は認証を無効にした (X-Tenant-ID で識別する) 設定
func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Enabled = false
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}
	return cfg
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := setupTestDB(t)
	broker := events.NewBroker(32)
	tmpl := &service.PlanTemplate{
		Morning:   []string{"B12"},
		Evening:   []string{"Magnesium"},
		Inventory: map[string]int{"B12": 10},
	}
	engine := habit.NewEngine([]model.MealLabel{"Breakfast", "Lunch"})
	tenantRepo := repository.NewGormTenantRepository()
	planRepo := repository.NewGormPlanRepository()
	dayRepo := repository.NewGormDayRepository()

	h := &handlers.Handlers{
		Tenant: handlers.NewTenantHandler(service.NewTenantService(db, tenantRepo)),
		Plan:   handlers.NewPlanHandler(service.NewPlanService(db, planRepo, tmpl, 30, nil, broker)),
		Day:    handlers.NewDayHandler(service.NewDayService(db, planRepo, dayRepo, tmpl, engine, nil, broker, time.UTC)),
		Stats:  handlers.NewStatsHandler(service.NewStatsService(db, planRepo, dayRepo, tmpl, engine, time.UTC)),
		Events: handlers.NewEventsHandler(broker, time.Second),
	}
	server := httptest.NewServer(handlers.NewRouter(testConfig(), testLogger, db, h))
	t.Cleanup(server.Close)
	return &testApp{server: server, db: db, broker: broker}
}
