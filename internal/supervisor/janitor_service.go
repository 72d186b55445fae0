package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/discovernortheast/internal/logging"
)

// OrphanSweeper removes upload files no gallery entry points to.
type OrphanSweeper interface {
	SweepOrphans(ctx context.Context, grace time.Duration) (int, error)
}

// JanitorService periodically sweeps orphaned uploads, such as files left
// behind when a rejected image could not be unlinked.
type JanitorService struct {
	sweeper  OrphanSweeper
	interval time.Duration
	grace    time.Duration
	log      zerolog.Logger
}

// NewJanitorService sweeps every interval, removing orphans older than grace.
func NewJanitorService(sweeper OrphanSweeper, interval, grace time.Duration) *JanitorService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JanitorService{
		sweeper:  sweeper,
		interval: interval,
		grace:    grace,
		log:      logging.With("upload-janitor"),
	}
}

// Serve implements suture.Service. Sweep errors are logged and retried on
// the next tick rather than restarting the service.
func (j *JanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *JanitorService) sweep(ctx context.Context) {
	removed, err := j.sweeper.SweepOrphans(ctx, j.grace)
	if err != nil {
		if ctx.Err() == nil {
			j.log.Warn().Err(err).Msg("orphan sweep failed")
		}
		return
	}
	j.log.Debug().Int("removed", removed).Msg("orphan sweep finished")
}

func (j *JanitorService) String() string {
	return "upload-janitor"
}
