package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Aditya2838/new-market/internal/config"
	"github.com/Aditya2838/new-market/internal/engine"
	"github.com/Aditya2838/new-market/internal/market"
	"github.com/Aditya2838/new-market/internal/storage"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	dbPath := flag.String("db", "data/trader.db", "path to SQLite database")
	dryRun := flag.Bool("dry-run", false, "show positions without closing")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.NewDatabase(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "database error: %v\n", err)
		os.Exit(1)
	}
	repo := storage.NewRepository(db)

	trades, err := repo.GetOpenTrades()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get open trades error: %v\n", err)
		os.Exit(1)
	}

	if len(trades) == 0 {
		fmt.Println("No open positions.")
		return
	}

	feed := market.NewSyntheticFeed(cfg.Market.Spot, cfg.Market.Seed, nil)
	ctx := context.Background()

	fmt.Printf("Found %d open position(s):\n\n", len(trades))
	for _, t := range trades {
		fmt.Printf("  %s: %d lots @ %.2f, SL %.2f, target %.2f\n",
			t.Symbol, t.Quantity, t.Entry, t.StopLoss, t.Target)
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("Dry run, no positions closed.")
		return
	}

	now := time.Now()
	var closed, failed int
	for _, t := range trades {
		inst := market.Instrument{
			Underlying: cfg.Trading.Underlying,
			Strike:     t.Strike,
			Side:       market.OptionSide(t.OptionSide),
			Expiry:     t.Expiry,
			LotSize:    t.LotSize,
		}

		quote, err := feed.Quote(ctx, inst)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [FAIL] %s: quote: %v\n", t.Symbol, err)
			failed++
			continue
		}

		exitPrice := quote.Mid()
		dir := 1.0
		if t.Action == "SELL" {
			dir = -1.0
		}
		pnl := (exitPrice - t.Entry) * float64(t.Quantity) * float64(t.LotSize) * dir
		holdingHours := now.Sub(t.EnteredAt).Hours()

		err = repo.CloseTrade(t.PositionID, now, exitPrice, string(engine.ExitForcedClose), pnl, holdingHours)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [FAIL] %s: close: %v\n", t.Symbol, err)
			failed++
			continue
		}

		fmt.Printf("  [OK]   %s: closed %d lots @ %.2f, P&L %.2f\n", t.Symbol, t.Quantity, exitPrice, pnl)
		closed++
	}

	fmt.Printf("\nDone: %d closed, %d failed.\n", closed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
