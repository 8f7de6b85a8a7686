package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Aditya2838/new-market/internal/advisor"
	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/engine"
	"github.com/Aditya2838/new-market/internal/gateway"
	"github.com/Aditya2838/new-market/internal/logger"
	"github.com/Aditya2838/new-market/internal/market"
	"github.com/Aditya2838/new-market/internal/scheduler"
	"github.com/Aditya2838/new-market/internal/storage"
	"github.com/Aditya2838/new-market/internal/telegram"
	"github.com/Aditya2838/new-market/internal/web"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "data/trader.db", "path to SQLite database")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Init logger
	log := logger.New(cfg.Logging.Level)
	log.Info("starting options bot",
		"underlying", cfg.Trading.Underlying, "balance", cfg.Trading.AccountBalance)

	// Init database
	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Market data and session calendar
	cal := market.NewCalendar(cfg.ExchangeLocation())
	feed := market.NewSyntheticFeed(cfg.Market.Spot, cfg.Market.Seed, nil)

	// Risk engine
	admission := engine.NewAdmissionController(engine.Caps{
		MaxTotal:          cfg.Trading.MaxPositions,
		MaxCall:           cfg.Trading.MaxCallPositions,
		MaxPut:            cfg.Trading.MaxPutPositions,
		MaxSpread:         cfg.Trading.MaxSpreadPositions,
		DailyLossFraction: cfg.Trading.DailyLossFraction,
	}, cal)
	evaluator := engine.NewExitEvaluator(engine.TrailingMode(cfg.Trading.TrailingMode))
	ledger := engine.NewLedger(cfg.Trading.AccountBalance, admission, evaluator, nil, log, storage.NewRecorder(repo))
	builder := engine.NewCompositeBuilder(ledger, cfg.Trading.Underlying, cfg.Trading.LotSize, nil, log)

	// Init services
	adv := advisor.NewDeepSeekAdvisor(cfg, log)
	notifier := telegram.NewNotifier(cfg, log)
	gw := gateway.NewSimulatedGateway(feed, log, nil)
	sched := scheduler.NewScheduler(feed, ledger, builder, adv, gw, repo, notifier, cfg, log, cal, nil)
	webServer := web.NewServer(ledger, feed, repo, cfg, log)

	// Start scheduler in goroutine
	go sched.Run(ctx)

	// Start web server in goroutine
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	notifier.NotifyStatus(fmt.Sprintf("🤖 Options bot started (%s, spot %.0f)",
		cfg.Trading.Underlying, cfg.Market.Spot))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	// Graceful shutdown
	cancel() // stop scheduler

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	notifier.NotifyStatus("🛑 Options bot stopped")
	log.Info("options bot stopped")
}
