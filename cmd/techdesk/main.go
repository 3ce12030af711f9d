package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/techdesk/internal/api"
	"github.com/terra-clan/techdesk/internal/backends"
	"github.com/terra-clan/techdesk/internal/config"
	"github.com/terra-clan/techdesk/internal/digest"
	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/records"
	"github.com/terra-clan/techdesk/internal/seed"
	"github.com/terra-clan/techdesk/internal/stats"
	"github.com/terra-clan/techdesk/internal/storage"
)

func main() {
	// Setup structured logging; the level is applied once config is loaded
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.Level)

	slog.Info("starting techdesk",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"driver", cfg.Database.Driver,
		"redis", cfg.Redis.Enabled,
		"auth", cfg.Auth.Enabled,
	)

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	repo, err := storage.Open(initCtx, cfg.Database)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	registry := backends.NewRegistry()
	defer registry.CloseAll()
	registry.Register("store", backends.NewStoreBackend(cfg.Database.Driver, repo))

	if cfg.Database.Driver == config.DriverPostgres {
		pg, err := backends.NewPostgresBackend(initCtx, cfg.Database.DSN)
		if err != nil {
			slog.Error("failed to create postgres backend", "error", err)
			os.Exit(1)
		}
		registry.Register("postgres", pg)
	}

	var bus events.Bus = events.NewLocalBus()
	if cfg.Redis.Enabled {
		client, err := backends.NewRedisClient(initCtx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		registry.Register("redis", backends.NewRedisBackend(client))
		bus = events.NewRedisBus(client, cfg.Redis.Channel)
		slog.Info("redis event bus enabled", "channel", cfg.Redis.Channel)
	}
	defer bus.Close()

	manager := records.NewManager(repo, bus)
	statsService := stats.NewService(repo)

	if cfg.Seed.File != "" {
		fixtures, err := seed.Load(cfg.Seed.File)
		if err != nil {
			slog.Error("failed to load seed file", "error", err)
			os.Exit(1)
		}
		if _, err := seed.Apply(initCtx, manager, repo, fixtures); err != nil {
			slog.Error("failed to apply seed file", "error", err)
			os.Exit(1)
		}
	}

	server := api.NewServer(cfg.Server, cfg.Auth, api.Deps{
		Records:  manager,
		Stats:    statsService,
		Repo:     repo,
		Backends: registry,
		Bus:      bus,
	})
	httpServer := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     server.Router(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Digest.Interval > 0 {
		worker := digest.NewWorker(statsService, bus, cfg.Digest.Interval)
		g.Go(func() error {
			worker.Run(gctx)
			return nil
		})
	} else {
		slog.Info("digest worker disabled")
	}

	if err := g.Wait(); err != nil {
		slog.Error("techdesk stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("techdesk stopped")
}
