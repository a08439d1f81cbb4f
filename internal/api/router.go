package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/api/handlers"
	mw "github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/buildconfig"
	"github.com/rentledger/rentledger/internal/config"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
	"github.com/rentledger/rentledger/internal/store"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Refresher    *service.RefresherService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	accountStore := store.NewAccountStore(db)
	userStore := store.NewUserStore(db)
	tenantStore := store.NewTenantStore(db)
	ledgerStore := store.NewLedgerStore(db)
	rentChargeStore := store.NewRentChargeStore(db)
	utilityChargeStore := store.NewUtilityChargeStore(db)
	paymentStore := store.NewPaymentStore(db)

	// Services
	authSvc := service.NewAuthService(accountStore, userStore, config.JWTSecret(), config.TokenTTL(), logger)
	tenantSvc := service.NewTenantService(tenantStore, logger)
	ledgerSvc := service.NewLedgerService(ledgerStore, tenantStore, logger)
	chargeSvc := service.NewChargeService(rentChargeStore, utilityChargeStore, paymentStore, ledgerStore, tenantStore, logger)
	summarySvc := service.NewSummaryService(tenantStore, rentChargeStore, utilityChargeStore, paymentStore, ledgerStore, logger)
	refresherSvc := service.NewRefresherService(summarySvc, logger)
	refresherSvc.SetInterval(config.SummaryRefreshInterval())

	// Handlers
	authHandler := handlers.NewAuthHandler(authSvc)
	tenantHandler := handlers.NewTenantHandler(tenantSvc)
	ledgerHandler := handlers.NewLedgerHandler(ledgerSvc)
	chargeHandler := handlers.NewChargeHandler(chargeSvc)
	dashboardHandler := handlers.NewDashboardHandler(refresherSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Refresher: refresherSvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Auth endpoints (no session yet)
	r.Post("/v1/auth/signup", authHandler.SignUp)
	r.Post("/v1/auth/login", authHandler.SignIn)

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.SessionAuth(authSvc))

		r.Post("/auth/logout", authHandler.SignOut)
		r.Get("/auth/me", authHandler.Me)

		// Tenant directory
		r.Route("/tenants", func(r chi.Router) {
			r.Get("/", tenantHandler.List)
			r.Post("/", tenantHandler.Create)
			r.Get("/export", tenantHandler.Export)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", tenantHandler.GetByID)
				r.Put("/", tenantHandler.Update)
				r.Delete("/", tenantHandler.Delete)
			})
		})

		// Charges and payments
		r.Route("/charges", func(r chi.Router) {
			r.Get("/rent", chargeHandler.ListRentCharges)
			r.Post("/rent", chargeHandler.CreateRentCharge)
			r.Get("/utility", chargeHandler.ListUtilityCharges)
			r.Post("/utility", chargeHandler.CreateUtilityCharge)
		})
		r.Get("/payments", chargeHandler.ListPayments)
		r.Post("/payments", chargeHandler.CreatePayment)

		// Ledger views
		r.Route("/ledger", func(r chi.Router) {
			r.Post("/", ledgerHandler.Create)
			r.Get("/recent", ledgerHandler.Recent)
			r.Get("/attention", ledgerHandler.Attention)
		})

		// Dashboard
		r.Get("/dashboard/summary", dashboardHandler.Summary)
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage no lifecycle.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"version":    buildconfig.Version(),
			"commit":     buildconfig.Commit(),
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy the domain interfaces at compile time.
var (
	_ domain.AccountStore       = (*store.AccountStore)(nil)
	_ domain.UserStore          = (*store.UserStore)(nil)
	_ domain.TenantStore        = (*store.TenantStore)(nil)
	_ domain.LedgerStore        = (*store.LedgerStore)(nil)
	_ domain.RentChargeStore    = (*store.RentChargeStore)(nil)
	_ domain.UtilityChargeStore = (*store.UtilityChargeStore)(nil)
	_ domain.PaymentStore       = (*store.PaymentStore)(nil)
)
