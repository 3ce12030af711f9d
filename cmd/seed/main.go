package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/terra-clan/techdesk/internal/config"
	"github.com/terra-clan/techdesk/internal/records"
	"github.com/terra-clan/techdesk/internal/seed"
	"github.com/terra-clan/techdesk/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	file := flag.String("file", cfg.Seed.File, "YAML fixture file")
	flag.Parse()

	if *file == "" {
		slog.Error("no seed file given, use -file or SEED_FILE")
		os.Exit(2)
	}
	if cfg.Database.Driver == config.DriverMemory {
		slog.Warn("seeding the in-memory store only validates the file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fixtures, err := seed.Load(*file)
	if err != nil {
		slog.Error("failed to load seed file", "error", err)
		os.Exit(1)
	}

	repo, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	// Events are not published from the seeder
	manager := records.NewManager(repo, nil)

	res, err := seed.Apply(ctx, manager, repo, fixtures)
	if err != nil {
		slog.Error("failed to apply seed file", "error", err)
		repo.Close()
		os.Exit(1)
	}

	slog.Info("seeding finished", "created", res.Created, "skipped", res.Skipped)
}
