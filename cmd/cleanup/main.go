// Command cleanup reports and purges word attributes left over from the
// old flat storage format. It is intended to be invoked by an external
// cron job or by hand during a migration, not as an in-process goroutine.
//
// Usage: cleanup [-purge]
//
// Without flags only the report is printed. Exit codes: 0 = success,
// 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres/attribute"
	"github.com/jelyk/wortschatz-backend/internal/app"
	"github.com/jelyk/wortschatz-backend/internal/config"
	"github.com/jelyk/wortschatz-backend/internal/service/cleanup"
)

func main() {
	purge := flag.Bool("purge", false, "delete legacy attributes after reporting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := cleanup.NewService(logger, attribute.New(pool))

	report, err := svc.Report(ctx)
	if err != nil {
		logger.Error("report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if len(report) == 0 {
		fmt.Println("no legacy attributes left")
	}
	for _, kc := range report {
		fmt.Printf("%-40s %d\n", kc.Key, kc.Count)
	}

	if !*purge {
		return
	}

	deleted, err := svc.Purge(ctx)
	if err != nil {
		logger.Error("purge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("purge completed", slog.Int64("deleted", deleted))
}
