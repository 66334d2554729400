// Package main is the entry point for the daytrip API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/daytrip/internal/clock"
	"github.com/pkordes/daytrip/internal/config"
	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/handler"
	"github.com/pkordes/daytrip/internal/itinerary"
	"github.com/pkordes/daytrip/internal/location"
	"github.com/pkordes/daytrip/internal/mapview"
	"github.com/pkordes/daytrip/internal/middleware"
	"github.com/pkordes/daytrip/internal/repo"
	"github.com/pkordes/daytrip/internal/service"
	"github.com/pkordes/daytrip/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ----------------------------------------------------------
	records, closeStore, err := openRecords(ctx, cfg)
	if err != nil {
		slog.Error("failed to open waypoint store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("waypoint store ready", "driver", cfg.StoreDriver)

	waypoints := service.NewWaypointStore(repo.NewWaypointRepo(records, cfg.WaypointKey), logger)
	waypoints.Load(ctx)

	// --- Itinerary --------------------------------------------------------
	plan, err := loadPlan(cfg.ItineraryPath)
	if err != nil {
		slog.Error("failed to load itinerary", "path", cfg.ItineraryPath, "error", err)
		os.Exit(1)
	}
	activities, err := itinerary.NewStore(plan)
	if err != nil {
		slog.Error("invalid itinerary", "error", err)
		os.Exit(1)
	}
	slog.Info("itinerary loaded", "activities", len(plan))

	// --- Clock and location -----------------------------------------------
	countdown := clock.New(
		clock.Milestones{Arrival: cfg.Arrival, Onboard: cfg.Onboard},
		clock.WithLocation(cfg.Location),
		clock.WithLogger(logger),
	)
	countdown.Start(ctx)

	fixes := location.NewPushSource()
	tracker := location.NewTracker(fixes, logger)
	tracker.Start(ctx)

	// --- Map --------------------------------------------------------------
	scene := mapview.NewScene()
	engine := mapview.NewEngine(activities, tracker, waypoints, scene, logger)
	engine.Reconcile()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(middleware.DefaultMaxBodySize))

	srv := handler.NewServer(handler.Services{
		Activities:    activities,
		Countdown:     countdown,
		Location:      tracker,
		Fixes:         fixes,
		Engine:        engine,
		Scene:         scene,
		Waypoints:     waypoints,
		Export:        service.NewExportService(waypoints, activities),
		ShipDeparture: cfg.ShipDeparture,
	})
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	countdown.Stop()
	tracker.Stop()
	if err := waypoints.Flush(shutdownCtx); err != nil {
		slog.Error("final waypoint save failed", "error", err)
	}
	slog.Info("server stopped")
}

// openRecords opens the configured record store, applies migrations and
// returns a cleanup func for the underlying connections.
func openRecords(ctx context.Context, cfg config.Config) (repo.RecordRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		// pgxpool.New does not open connections immediately; Ping does.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		sqlDB := stdlib.OpenDBFromPool(pool)
		if _, err := migrations.Up(ctx, sqlDB, goose.DialectPostgres); err != nil {
			sqlDB.Close()
			pool.Close()
			return nil, nil, err
		}
		return repo.NewPGRecordRepo(pool), func() {
			sqlDB.Close()
			pool.Close()
		}, nil

	default:
		db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if _, err := migrations.Up(ctx, db, goose.DialectSQLite3); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo.NewSQLiteRecordRepo(db), func() { db.Close() }, nil
	}
}

// loadPlan returns the plan from path, or the embedded default when path is empty.
func loadPlan(path string) ([]domain.Activity, error) {
	if path == "" {
		return itinerary.DefaultPlan()
	}
	return itinerary.LoadPlanFile(path)
}
