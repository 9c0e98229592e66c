package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"boilerlog/internal/audit"
	"boilerlog/internal/auth"
	dashapp "boilerlog/internal/dashboard/application"
	dashhttp "boilerlog/internal/dashboard/interfaces/http"
	"boilerlog/internal/exports"
	logapp "boilerlog/internal/logbook/application"
	logbook "boilerlog/internal/logbook/domain"
	logmemory "boilerlog/internal/logbook/infrastructure/memory"
	logpostgres "boilerlog/internal/logbook/infrastructure/postgres"
	loghttp "boilerlog/internal/logbook/interfaces/http"
	"boilerlog/internal/observability/metrics"
	settingsapp "boilerlog/internal/settings/application"
	settings "boilerlog/internal/settings/domain"
	settingsmemory "boilerlog/internal/settings/infrastructure/memory"
	settingspostgres "boilerlog/internal/settings/infrastructure/postgres"
	settingshttp "boilerlog/internal/settings/interfaces/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	var (
		db          *sql.DB
		testRepo    logbook.WaterTestRepository
		weeklyRepo  logbook.WeeklyEvaporationRepository
		commentRepo logbook.CommentRepository
		settingRepo settings.Repository
		auditor     audit.Logger
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		if err := logpostgres.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatalf("db schema error: %v", err)
		}
		testRepo = logpostgres.NewWaterTestRepository(db)
		weeklyRepo = logpostgres.NewWeeklyEvaporationRepository(db)
		commentRepo = logpostgres.NewCommentRepository(db)
		settingRepo = settingspostgres.NewRepository(db)
		auditor = audit.NewRepository(db)
	} else {
		// Single-terminal mode: everything lives in memory and is lost on
		// restart. Useful on the floor before the database is provisioned.
		logger.Printf("DATABASE_URL not set, running with in-memory storage")
		testRepo = logmemory.NewWaterTestRepository()
		weeklyRepo = logmemory.NewWeeklyEvaporationRepository()
		commentRepo = logmemory.NewCommentRepository()
		settingRepo = settingsmemory.NewRepository()
	}

	metrics.Init(db, logger)

	defaults, err := settingsapp.LoadDefaults(cfg.SettingsDefaultsPath)
	if err != nil {
		logger.Fatalf("settings defaults error: %v", err)
	}
	settingsService, err := settingsapp.NewService(settingRepo, settingsapp.WithDefaults(defaults), settingsapp.WithLogger(logger))
	if err != nil {
		logger.Fatalf("settings service error: %v", err)
	}

	logService, err := logapp.NewService(testRepo, weeklyRepo, commentRepo)
	if err != nil {
		logger.Fatalf("logbook service error: %v", err)
	}

	statusService, err := dashapp.NewStatusService(testRepo, weeklyRepo, settingsService, dashapp.WithLogger(logger))
	if err != nil {
		logger.Fatalf("status service error: %v", err)
	}
	refresher, err := dashapp.NewRefresher(statusService,
		dashapp.WithRefreshSpec(cfg.RefreshSpec),
		dashapp.WithRefreshLogger(logger),
	)
	if err != nil {
		logger.Fatalf("refresher error: %v", err)
	}
	if err := refresher.Start(); err != nil {
		logger.Fatalf("refresher start error: %v", err)
	}
	defer refresher.Stop()

	logHandler, err := loghttp.NewHandler(logService, settingsService, auditor)
	if err != nil {
		logger.Fatalf("logbook handler error: %v", err)
	}
	settingsHandler, err := settingshttp.NewHandler(settingsService, auditor)
	if err != nil {
		logger.Fatalf("settings handler error: %v", err)
	}
	statusHandler, err := dashhttp.NewHandler(statusService)
	if err != nil {
		logger.Fatalf("status handler error: %v", err)
	}
	exportHandler, err := exports.NewHandler(logService, settingsService)
	if err != nil {
		logger.Fatalf("export handler error: %v", err)
	}

	attribution := auth.NewMiddleware([]byte(cfg.JWTSecret))

	mux := http.NewServeMux()
	mux.Handle("/api/v1/watertests", logHandler)
	mux.Handle("/api/v1/watertests/", logHandler)
	mux.Handle("/api/v1/weekly-evaporations", logHandler)
	mux.Handle("/api/v1/comments", logHandler)
	mux.Handle("/api/v1/settings", settingsHandler)
	mux.Handle("/api/v1/status", statusHandler)
	mux.Handle("/api/v1/exports/history.csv", exportHandler)
	mux.Handle("/api/v1/exports/history.xlsx", exportHandler)
	mux.Handle("/api/v1/exports/history.pdf", exportHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(attribution.Wrap(mux), logger)}
	logger.Printf("http listening on %s", cfg.HTTPAddr)
	logger.Fatal(server.ListenAndServe())
}

type config struct {
	DatabaseURL          string
	HTTPAddr             string
	JWTSecret            string
	SettingsDefaultsPath string
	RefreshSpec          string
}

func loadConfig() config {
	return config{
		DatabaseURL:          getenvDefault("DATABASE_URL", getenvDefault("PG_DSN", "")),
		HTTPAddr:             getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:            getenvDefault("AUTH_JWT_SECRET", getenvDefault("JWT_SECRET", "")),
		SettingsDefaultsPath: getenvDefault("SETTINGS_DEFAULTS", ""),
		RefreshSpec:          getenvDefault("STATUS_REFRESH_SPEC", ""),
	}
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
