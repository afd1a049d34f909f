package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// closedArchiver is satisfied by the listing repo.
type closedArchiver interface {
	ArchiveClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job archives listings that were marked SOLD or RENTED and have sat
// closed past the retention window.
type Job struct {
	listings  closedArchiver
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(listings closedArchiver, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		listings:  listings,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.listings == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	archived, err := j.listings.ArchiveClosedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("archive closed listings: %w", err)
	}
	if archived > 0 {
		j.logger.Info("archived closed listings", zap.Int64("archived", archived))
	}

	return nil
}

// Start runs the job on a fixed interval until the context is canceled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Error("listing cleanup run failed", zap.Error(err))
			}
		}
	}
}
