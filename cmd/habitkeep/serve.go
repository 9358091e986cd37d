package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go_5_habit_keep/internal/config"
	"go_5_habit_keep/internal/events"
	"go_5_habit_keep/internal/habit"
	"go_5_habit_keep/internal/handlers"
	"go_5_habit_keep/internal/model"
	"go_5_habit_keep/internal/repository"
	"go_5_habit_keep/internal/service"

	"github.com/spf13/cobra"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API サーバーを起動します",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "起動時にテーブルを作成・更新する")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "version", config.AppVersion)

	db, err := repository.NewDB(cfg.Database.Driver, cfg.Database.URL, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		} else {
			logger.Info("Database connection closed.")
		}
	}()
	if migrateOnStart {
		if err := repository.AutoMigrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("Database migrated")
	}

	template, err := service.LoadPlanTemplate(cfg.App.DefaultPlanPath)
	if err != nil {
		return fmt.Errorf("load plan template: %w", err)
	}
	meals := make([]model.MealLabel, 0, len(cfg.App.Meals))
	for _, m := range cfg.App.Meals {
		meals = append(meals, model.MealLabel(m))
	}
	engine := habit.NewEngine(meals)
	loc := cfg.Location()

	// Dependency Injection
	tenantRepo := repository.NewGormTenantRepository()
	planRepo := repository.NewGormPlanRepository()
	dayRepo := repository.NewGormDayRepository()

	broker := events.NewBroker(0)
	alerter := service.NewStockAlerter(db, tenantRepo, service.NewMailer(cfg), cfg.App.LowStockThreshold)

	tenantService := service.NewTenantService(db, tenantRepo)
	planService := service.NewPlanService(db, planRepo, template, cfg.App.DefaultStock, alerter, broker)
	dayService := service.NewDayService(db, planRepo, dayRepo, template, engine, alerter, broker, loc)
	statsService := service.NewStatsService(db, planRepo, dayRepo, template, engine, loc)

	router := handlers.NewRouter(cfg, logger, db, &handlers.Handlers{
		Tenant: handlers.NewTenantHandler(tenantService),
		Plan:   handlers.NewPlanHandler(planService),
		Day:    handlers.NewDayHandler(dayService),
		Stats:  handlers.NewStatsHandler(statsService),
		Events: handlers.NewEventsHandler(broker, 0),
	})

	server, cancelRequests := newHTTPServer(cfg.Server.Port, router)
	defer cancelRequests()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", cfg.Server.Port, err)
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server exiting")
	return nil
}

// newHTTPServer は API サーバーを組み立てます。
// SSE を流すため WriteTimeout は付けない。API は chi の Timeout で制限する。
// Shutdown 時にはリクエストのコンテキストをキャンセルし、SSE 接続を閉じさせる
func newHTTPServer(addr string, handler http.Handler) (*http.Server, context.CancelFunc) {
	baseCtx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancel)
	return server, cancel
}
