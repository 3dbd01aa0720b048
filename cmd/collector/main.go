package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jharlow/lme-data/internal/calendar"
	"github.com/jharlow/lme-data/internal/collect"
	"github.com/jharlow/lme-data/internal/config"
	"github.com/jharlow/lme-data/internal/database"
	"github.com/jharlow/lme-data/internal/discovery"
	"github.com/jharlow/lme-data/internal/fetch"
	"github.com/jharlow/lme-data/internal/model"
	"github.com/jharlow/lme-data/internal/scheduler"
	"github.com/jharlow/lme-data/internal/session"
	"github.com/jharlow/lme-data/internal/store"
	"github.com/jharlow/lme-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Pick up local secrets before config expansion
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env")
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"gateway_url", cfg.Gateway.URL,
	)

	cal, err := calendar.Parse(cfg.Calendar.Holidays, cfg.Calendar.FromYear, cfg.Calendar.ToYear)
	if err != nil {
		logger.Error("failed to load holiday calendar", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to databases
	logger.Info("connecting to databases",
		"reference", cfg.Database.Reference.Host,
		"timeseries", cfg.Database.Timeseries.Host,
	)

	pools, err := database.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pools.Close()

	logger.Info("databases connected")

	// Connect to the market-data gateway
	sessCfg := session.DefaultConfig()
	sessCfg.URL = cfg.Gateway.URL
	sessCfg.Token = cfg.Gateway.Token
	sessCfg.HandshakeTimeout = cfg.Gateway.HandshakeTimeout
	sessCfg.WriteTimeout = cfg.Gateway.WriteTimeout
	sessCfg.RequestTimeout = cfg.Gateway.RequestTimeout
	sessCfg.PingTimeout = cfg.Gateway.PingTimeout

	client := session.NewClient(sessCfg, logger)
	if err := client.Dial(ctx); err != nil {
		logger.Error("failed to connect to gateway", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	logger.Info("gateway connected", "url", cfg.Gateway.URL)

	// Wire the collection pipeline
	spreadStore := store.NewSpreadStore(pools.Reference, logger)
	tickStore := store.NewTickStore(pools.Timeseries, logger)
	scheduleStore := store.NewScheduleStore(pools.Reference)

	fetcher := fetch.New(client,
		fetch.WithBatchSize(cfg.Collection.BatchSize),
		fetch.WithBatchDelay(cfg.Collection.BatchDelay),
		fetch.WithLogger(logger),
	)
	disc := discovery.New(client, spreadStore, logger)

	runner := collect.NewRunner(
		collect.Config{
			ActiveLookback:   cfg.Collection.ActiveLookback,
			InactiveAfter:    cfg.Collection.InactiveAfter,
			ThreeMonthTicker: cfg.Reference.ThreeMonthTicker,
			CashTicker:       cfg.Reference.CashTicker,
		},
		spreadStore, tickStore, fetcher, client, disc, cal,
		collect.WithLogger(logger),
	)

	table := scheduler.NewTable(scheduleStore, logger)
	svc := scheduler.NewService(table, runner, cfg.Collection.PollTick, logger)

	if err := svc.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		svc.Stop(shutdownCtx)
	}()

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(cfg.Health.Path, pools, client, svc),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("collector running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d%s", cfg.Health.Port, cfg.Health.Path),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("collector stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(path string, pools *database.Pools, client *session.Client, svc *scheduler.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check databases
		if err := pools.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}

		// Check gateway session
		if client.IsConnected() {
			health.Components["gateway"] = "connected"
		} else {
			health.Status = "unhealthy"
			health.Components["gateway"] = "disconnected"
		}

		// Summarize the schedule table
		counts := make(map[model.ScheduleStatus]int)
		var errored int
		for _, s := range svc.Snapshot() {
			counts[s.Status]++
			if s.Status == model.StatusErrored {
				errored++
			}
		}
		health.Components["schedules"] = counts
		if errored > 0 && health.Status == "healthy" {
			health.Status = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
