package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"marketdash/internal/api"
	"marketdash/internal/cache"
	"marketdash/internal/config"
	"marketdash/internal/dashboard"
	"marketdash/internal/notifier"
	"marketdash/internal/provider"
	"marketdash/internal/recorder"
	"marketdash/internal/retry"
	"marketdash/internal/warmer"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] market dashboard starting...")

	// Optional .env for local development
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init provider
	yahoo := provider.NewYahooProvider(cfg.Proxy)
	if cfg.Provider.ChartBaseURL != "" {
		yahoo.ChartBaseURL = cfg.Provider.ChartBaseURL
	}
	if cfg.Provider.SummaryBaseURL != "" {
		yahoo.SummaryBaseURL = cfg.Provider.SummaryBaseURL
	}
	if cfg.Provider.FundamentalsBaseURL != "" {
		yahoo.FundamentalsBaseURL = cfg.Provider.FundamentalsBaseURL
	}
	log.Printf("[INFO] data source: %s", yahoo.Name())

	// Init cache
	store := cache.NewStore(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifier
	var ntf notifier.Notifier
	if cfg.Webhook.URL != "" {
		ntf = notifier.NewWebhookNotifier(cfg.Webhook.URL, cfg.Proxy)
		log.Println("[INFO] webhook notifier enabled")
	} else {
		ntf = notifier.NewNoopNotifier()
	}

	// Init fetch-and-cache service
	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       time.Duration(cfg.Retry.DelaySeconds) * time.Second,
	}
	svc := dashboard.NewService(yahoo, store, policy, rec, ntf)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init cache warmer
	if cfg.Warm.Enabled {
		w := warmer.New(ctx, svc, cfg.Watchlist.Indices, cfg.Watchlist.Stocks)
		if err := w.Register(cfg.Warm.Cron); err != nil {
			log.Fatalf("[FATAL] register warm job: %v", err)
		}
		w.Start()
		defer w.Stop()
		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, warming cache now")
			go w.RunNow()
		}
	}

	// Init HTTP server
	handler := api.NewHandler(svc, cfg.Watchlist.Indices, cfg.Watchlist.Stocks)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler.Router(),
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	log.Println("[INFO] market dashboard is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] market dashboard stopped")
}
