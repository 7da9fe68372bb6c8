package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kpivision/dashboard-engine/internal/config"
	"github.com/kpivision/dashboard-engine/internal/dashboard"
	"github.com/kpivision/dashboard-engine/internal/db"
	"github.com/kpivision/dashboard-engine/internal/handlers"
	"github.com/kpivision/dashboard-engine/internal/logging"
	"github.com/kpivision/dashboard-engine/internal/metrics"
	"github.com/kpivision/dashboard-engine/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error", "json", "stderr").Error("Failed to load configuration", err, nil)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	logger.Info("Starting dashboard engine", nil)

	clock := clockwork.NewRealClock()

	// Snapshot persistence: Postgres when configured, memory otherwise.
	var snapshots dashboard.SnapshotStore
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		conn, err := db.Connect(ctx, cfg.Database.DSN(), cfg.Database.MaxOpenConns, cfg.Database.ConnMaxLifetime)
		if err != nil {
			cancel()
			logger.Error("Failed to connect to database", err, nil)
			os.Exit(1)
		}
		defer conn.Close()
		if err := db.EnsureSchema(ctx, conn); err != nil {
			cancel()
			logger.Error("Failed to ensure database schema", err, nil)
			os.Exit(1)
		}
		cancel()
		snapshots = db.NewSnapshotStore(conn)
		logger.Info("Connected to database", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	} else {
		snapshots = dashboard.NewMemorySnapshotStore()
		logger.Warn("No database configured, snapshots are kept in memory", nil)
	}

	store := dashboard.NewStore(dashboard.StoreConfig{
		Logger:    logger.With("store"),
		Clock:     clock,
		Snapshots: snapshots,
		Namespace: cfg.Dashboard.Namespace,
		LoadDelay: cfg.Dashboard.LoadDelay,
		ExportTTL: cfg.Dashboard.ExportTTL,
	})

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Export worker
	exporter := dashboard.NewExporter(store, clock, logger.With("exporter"))
	exporter.Delay = cfg.Dashboard.ExportDelay
	exporter.OnTransition = func(status dashboard.ExportStatus) {
		metrics.RecordExportTransition(string(status))
	}
	go exporter.Run(rootCtx)

	// Real-time pipeline
	scheduler := dashboard.NewScheduler(store, clock, logger.With("scheduler"), cfg.Dashboard.RefreshInterval)
	go scheduler.Run(rootCtx)

	rateLimiter := middleware.NewRateLimiter(10000, 1*time.Minute)
	router := handlers.NewRouter(store, logger, rateLimiter)

	// CORS handler wrapper
	//
	// Wrapped at the HTTP handler level (instead of router.Use) so preflight
	// responses work even when gorilla/mux would return 404 for a
	// method-mismatch. Websocket upgrades bypass the wrapper because they
	// need the raw connection.
	corsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" {
			router.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		allowed := false
		allowAll := false
		for _, allowedOrigin := range cfg.CORS.AllowedOrigins {
			if allowedOrigin == "*" {
				allowAll = true
				allowed = true
				break
			} else if allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if allowAll && origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
		}
		if allowed && (!allowAll || origin != "") {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.CORS.AllowedMethods, ", "))
		w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.CORS.AllowedHeaders, ", "))

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		router.ServeHTTP(w, r)
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"address": addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server", nil)

	scheduler.Stop()
	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", err, nil)
	}

	logger.Info("Server stopped", nil)
}
