package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"talenthub/internal/domain/audit"
	"talenthub/internal/domain/auth"
	"talenthub/internal/domain/core"
	"talenthub/internal/domain/evaluation"
	"talenthub/internal/domain/kpi"
	"talenthub/internal/domain/notifications"
	"talenthub/internal/domain/projects"
	"talenthub/internal/domain/reports"
	"talenthub/internal/domain/salary"
	"talenthub/internal/platform/config"
	cryptoutil "talenthub/internal/platform/crypto"
	"talenthub/internal/platform/db"
	"talenthub/internal/platform/email"
	"talenthub/internal/platform/jobs"
	"talenthub/internal/platform/metrics"
	audithandler "talenthub/internal/transport/http/handlers/audit"
	authhandler "talenthub/internal/transport/http/handlers/auth"
	corehandler "talenthub/internal/transport/http/handlers/core"
	employeeshandler "talenthub/internal/transport/http/handlers/employees"
	evaluationshandler "talenthub/internal/transport/http/handlers/evaluations"
	kpihandler "talenthub/internal/transport/http/handlers/kpi"
	notificationshandler "talenthub/internal/transport/http/handlers/notifications"
	projectshandler "talenthub/internal/transport/http/handlers/projects"
	reportshandler "talenthub/internal/transport/http/handlers/reports"
	salaryhandler "talenthub/internal/transport/http/handlers/salary"
	"talenthub/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		slog.Error("encryption key invalid", "err", err)
		os.Exit(1)
	}
	mailer := email.New(cfg)

	authStore := auth.NewStore(pool)
	authService := auth.NewService(authStore)
	coreService := core.NewService(core.NewStore(pool, cryptoSvc))
	kpiService := kpi.NewService(kpi.NewStore(pool))
	evaluationService := evaluation.NewService(evaluation.NewStore(pool))
	salaryService := salary.NewService(salary.NewStore(pool))
	reportsService := reports.NewService(reports.NewStore(pool))
	projectsService := projects.NewService(projects.NewStore(pool))
	notifyService := notifications.New(notifications.NewStore(pool), mailer, cfg.EmailEnabled, cfg.EmailFrom)
	auditService := audit.New(pool)
	idempotencyStore := middleware.NewIdempotencyStore(pool)

	jobsService := jobs.New(pool, cfg)
	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	jobsService.Start(jobsCtx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(recordMetrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			user, ok := middleware.GetUser(r.Context())
			if !ok || user.Role != auth.RoleAdmin {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(collector.Snapshot())
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		authHandler := authhandler.NewHandler(authService, cfg.JWTSecret, cryptoSvc, mailer, cfg.EmailFrom, cfg.AppBaseURL)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/request-reset", authHandler.HandleRequestReset)
		r.Post("/auth/reset", authHandler.HandleResetPassword)
		r.Post("/auth/logout", authHandler.HandleLogout)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/mfa/setup", authHandler.HandleMFASetup)
		r.Post("/auth/mfa/enable", authHandler.HandleMFAEnable)
		r.Post("/auth/mfa/disable", authHandler.HandleMFADisable)

		corehandler.NewHandler(coreService, authStore, auditService).RegisterRoutes(r)
		employeeshandler.NewHandler(coreService, salaryService, kpiService, evaluationService, reportsService, authStore, auditService).RegisterRoutes(r)
		kpihandler.NewHandler(kpiService, jobsService, authStore, auditService, notifyService).RegisterRoutes(r)
		evaluationshandler.NewHandler(evaluationService, authStore, auditService, notifyService).RegisterRoutes(r)
		salaryhandler.NewHandler(salaryService, authStore, auditService, notifyService, idempotencyStore).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, authStore, auditService, notifyService).RegisterRoutes(r)
		projectshandler.NewHandler(projectsService, authStore, auditService, notifyService).RegisterRoutes(r)
		notificationshandler.NewHandler(notifyService).RegisterRoutes(r)
		audithandler.NewHandler(auditService, authStore).RegisterRoutes(r)
	})

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func recordMetrics(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			collector.Record(recorder.status, time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
