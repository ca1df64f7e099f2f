package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jensholdgaard/hypebid-bot/internal/api"
	"github.com/jensholdgaard/hypebid-bot/internal/bot"
	"github.com/jensholdgaard/hypebid-bot/internal/clock"
	"github.com/jensholdgaard/hypebid-bot/internal/config"
	"github.com/jensholdgaard/hypebid-bot/internal/event"
	"github.com/jensholdgaard/hypebid-bot/internal/health"
	"github.com/jensholdgaard/hypebid-bot/internal/leader"
	"github.com/jensholdgaard/hypebid-bot/internal/screen"
	"github.com/jensholdgaard/hypebid-bot/internal/session"
	"github.com/jensholdgaard/hypebid-bot/internal/store"
	"github.com/jensholdgaard/hypebid-bot/internal/telemetry"

	// Register store drivers so they are available via store.Open.
	_ "github.com/jensholdgaard/hypebid-bot/internal/store/memory"
	_ "github.com/jensholdgaard/hypebid-bot/internal/store/postgres"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		if !errors.Is(err, telemetry.ErrNoEndpoint) {
			slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		}
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}

	repos, err := store.Open(ctx, cfg.Database, clk)
	if err != nil {
		return fmt.Errorf("opening store (driver=%s): %w", cfg.Database.Driver, err)
	}
	defer repos.Closer.Close()

	logger.InfoContext(ctx, "connected to session store", slog.String("driver", cfg.Database.Driver))

	client, err := api.New(cfg.API, logger, tp.TracerProvider)
	if err != nil {
		return fmt.Errorf("creating api client: %w", err)
	}

	journal := event.NewJournal(repos.Events, clk, logger)
	sessions := session.NewManager(repos.Sessions, client, journal, logger, tp.TracerProvider, clk)
	svc, err := screen.NewServices(client, sessions, journal, logger, tp.TracerProvider, clk)
	if err != nil {
		return fmt.Errorf("creating view services: %w", err)
	}

	healthHandler := health.NewHandler(clk,
		health.Checker{Name: "database", Check: repos.Ping},
		health.Checker{Name: "api", Check: client.Ping},
	)

	// Health endpoints run on all replicas.
	mux := http.NewServeMux()
	healthHandler.Register(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting health server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "health server error", slog.Any("error", listenErr))
		}
	}()

	// serve runs the bot until ctx is done. Views are per process, so a new
	// leader starts with an empty registry; sessions survive in the store.
	serve := func(ctx context.Context) error {
		views := screen.NewRegistry(cfg.Views.IdleTTL, clk, logger)
		discordBot, botErr := bot.New(cfg.Discord, sessions, svc, views, cfg.Views.SweepInterval, logger, tp.TracerProvider)
		if botErr != nil {
			return fmt.Errorf("creating bot: %w", botErr)
		}
		if botErr = discordBot.Start(ctx); botErr != nil {
			return fmt.Errorf("starting bot: %w", botErr)
		}

		healthHandler.SetReady(true)
		logger.InfoContext(ctx, "hypebidbot is running", slog.String("version", version))

		<-ctx.Done()
		logger.Info("shutting down...")

		healthHandler.SetReady(false)
		if stopErr := discordBot.Stop(); stopErr != nil {
			logger.Error("bot shutdown error", slog.Any("error", stopErr))
		}
		return nil
	}

	if cfg.LeaderElection.Enabled {
		logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")

		if leaderErr := leader.Run(ctx, cfg.LeaderElection, logger, func(ctx context.Context) {
			if serveErr := serve(ctx); serveErr != nil {
				logger.ErrorContext(ctx, "bot failed", slog.Any("error", serveErr))
				cancel()
			}
		}, func() {
			logger.Info("lost leadership, shutting down...")
			cancel()
		}); leaderErr != nil {
			return fmt.Errorf("leader election: %w", leaderErr)
		}
	} else if err := serve(ctx); err != nil {
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
