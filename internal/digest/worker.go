package digest

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/techdesk/internal/events"
	"github.com/terra-clan/techdesk/internal/models"
)

// Snapshotter computes the dashboard snapshot. stats.Service implements it.
type Snapshotter interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// Worker periodically logs a dashboard digest and broadcasts it
type Worker struct {
	stats    Snapshotter
	bus      events.Publisher
	interval time.Duration
}

// NewWorker creates a digest worker
func NewWorker(stats Snapshotter, bus events.Publisher, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if bus == nil {
		bus = events.NopBus{}
	}

	return &Worker{
		stats:    stats,
		bus:      bus,
		interval: interval,
	}
}

// Run is the main loop. It returns when ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	slog.Info("digest worker started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start
	w.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("digest worker stopped")
			return
		case <-ticker.C:
			w.cycle(ctx)
		}
	}
}

// cycle computes one digest. Failures skip the cycle.
func (w *Worker) cycle(ctx context.Context) {
	slog.Debug("running digest cycle")

	snap, err := w.stats.Snapshot(ctx)
	if err != nil {
		slog.Error("failed to compute digest", "error", err)
		return
	}

	slog.Info("dashboard digest",
		"orders", snap.Summary.TotalOrders,
		"clients", snap.Summary.TotalClients,
		"services", snap.Summary.TotalServices,
		"inventory", snap.Summary.TotalInventory,
		"pending", snap.ByStatus.Pending,
		"in_progress", snap.ByStatus.InProgress,
		"completed", snap.ByStatus.Completed,
		"cancelled", snap.ByStatus.Cancelled,
	)

	e, err := events.New(events.EntityStats, events.ActionDigest, 0).WithData(snap)
	if err != nil {
		slog.Error("failed to encode digest", "error", err)
		return
	}

	if err := w.bus.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish digest", "error", err)
	}
}
