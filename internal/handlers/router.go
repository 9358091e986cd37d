package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_5_habit_keep/internal/config"
	"go_5_habit_keep/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

const requestTimeout = 60 * time.Second

// Handlers はルーターに登録するハンドラ一式です
type Handlers struct {
	Tenant *TenantHandler
	Plan   *PlanHandler
	Day    *DayHandler
	Stats  *StatsHandler
	Events *EventsHandler
}

// NewRouter はミドルウェアとルートを設定した chi ルーターを返します。
// auth.enabled が false なら X-Tenant-ID ヘッダーで認証する
func NewRouter(cfg *config.Config, logger *slog.Logger, db *gorm.DB, h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)
	r.Use(chimiddleware.Recoverer)

	authMiddleware := middleware.DevTenantContextMiddleware
	if cfg.Auth.Enabled {
		logger.Info("Applying JWT authentication middleware")
		authMiddleware = middleware.JWTAuthMiddleware(cfg)
	} else {
		logger.Warn("Authentication is disabled. Using X-Tenant-ID header")
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(chimiddleware.Timeout(requestTimeout)).Post("/tenants", h.Tenant.CreateTenant)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			// SSE は長時間つなぎっぱなしなのでタイムアウトの外
			r.Get("/events", h.Events.Stream)

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Timeout(requestTimeout))

				r.Get("/me", h.Tenant.Me)

				r.Route("/plan", func(r chi.Router) {
					r.Get("/", h.Plan.GetPlan)
					r.Post("/slots/{slot}/supplements", h.Plan.AddSupplement)
					r.Delete("/slots/{slot}/supplements/{name}", h.Plan.RemoveSupplement)
					r.Put("/inventory/{name}", h.Plan.SetStock)
					r.Delete("/inventory/{name}", h.Plan.UntrackStock)
				})

				r.Route("/days/{date}", func(r chi.Router) {
					r.Get("/", h.Day.GetDay)
					r.Put("/checks", h.Day.ToggleIntake)
					r.Post("/select-all", h.Day.SelectAll)
					r.Patch("/metrics", h.Day.UpdateMetrics)
				})
				r.Get("/weeks/{date}", h.Day.GetWeek)
				r.Get("/months/{month}", h.Day.GetMonth)

				r.Route("/stats", func(r chi.Router) {
					r.Get("/streak", h.Stats.Streak)
					r.Get("/week", h.Stats.WeeklyPercent)
				})
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.GetLogger(r.Context())
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Health check failed: could not get DB object", "error", err)
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(r.Context()); err != nil {
			logger.Error("Health check failed: could not ping DB", "error", err)
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
