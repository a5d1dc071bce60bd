package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres"
	attributerepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/attribute"
	cardrepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/card"
	glossrepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/gloss"
	meaningrepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/meaning"
	translationrepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/translation"
	wordrepo "github.com/jelyk/wortschatz-backend/internal/adapter/postgres/word"
	"github.com/jelyk/wortschatz-backend/internal/adapter/provider/media"
	"github.com/jelyk/wortschatz-backend/internal/config"
	"github.com/jelyk/wortschatz-backend/internal/service/cleanup"
	"github.com/jelyk/wortschatz-backend/internal/service/lexicon"
	"github.com/jelyk/wortschatz-backend/internal/transport/rest"
)

// Run is the application entry point: configuration, logger, database
// pool, migrations, services, HTTP server with graceful shutdown.
func Run(ctx context.Context) error {
	// Best effort: a missing .env file is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("base_lang", cfg.Lexicon.BaseLang),
		slog.Int("langs", len(cfg.Lexicon.Langs)),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Database.MigrateOnStart {
		if err := Migrate(ctx, cfg.Database); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	meanings := meaningrepo.New(pool)
	cards := cardrepo.New(pool)
	translations := translationrepo.New(pool)
	glosses := glossrepo.New(pool)
	attributes := attributerepo.New(pool)
	words := wordrepo.New(pool)
	txManager := postgres.NewTxManager(pool)

	lexiconSvc := lexicon.NewService(logger, cfg.Lexicon,
		meanings, cards, translations, glosses, attributes, words, txManager)
	cleanupSvc := cleanup.NewService(logger, attributes)

	var images rest.ImageResolver = media.NewStatic(cfg.Media.URLPattern)
	if cfg.Media.BaseURL != "" {
		images = media.NewResolver(cfg.Media, logger)
	}

	router := rest.NewRouter(rest.RouterDeps{
		Health: rest.NewHealthHandler(pool, BuildVersion()),
		Words:  rest.NewWordHandler(lexiconSvc, logger),
		View:   rest.NewViewHandler(lexiconSvc, lexiconSvc, images, logger),
		Logger: logger,
	})

	var cronRunner *cron.Cron
	if cfg.Cleanup.Enabled {
		cronRunner = cron.New()
		_, err := cronRunner.AddFunc(cfg.Cleanup.ReportSchedule, func() {
			cleanupSvc.LogReport(context.Background())
		})
		if err != nil {
			return fmt.Errorf("schedule cleanup report: %w", err)
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
