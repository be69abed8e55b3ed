package leaderboardqueue

import (
	"context"
	"log/slog"
	"time"

	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/riverqueue/river"
)

// Recomputer is the slice of the leaderboard service the worker needs.
type Recomputer interface {
	RecomputeLeaderboard(ctx context.Context, trigger string) (*leaderboardservice.PublishResult, error)
}

// RecomputeWorker executes RecomputeJob.
type RecomputeWorker struct {
	river.WorkerDefaults[RecomputeJob]
	service Recomputer
	logger  *slog.Logger
	timeout time.Duration
}

// NewRecomputeWorker creates a worker. timeout bounds River's own job
// context; the service applies its configured timeout on top.
func NewRecomputeWorker(service Recomputer, logger *slog.Logger, timeout time.Duration) *RecomputeWorker {
	return &RecomputeWorker{service: service, logger: logger, timeout: timeout}
}

func (w *RecomputeWorker) Timeout(*river.Job[RecomputeJob]) time.Duration {
	return w.timeout
}

// Work runs the recompute. Failures are cancelled rather than retried; the
// next periodic run is the retry.
func (w *RecomputeWorker) Work(ctx context.Context, job *river.Job[RecomputeJob]) error {
	trigger := job.Args.Trigger
	if trigger == "" {
		trigger = "schedule"
	}

	res, err := w.service.RecomputeLeaderboard(ctx, trigger)
	if err != nil {
		w.logger.WarnContext(ctx, "Leaderboard recompute job failed",
			attr.Int64("job_id", job.ID),
			attr.String("trigger", trigger),
			attr.Error(err),
		)
		return river.JobCancel(err)
	}

	w.logger.InfoContext(ctx, "Leaderboard recompute job completed",
		attr.Int64("job_id", job.ID),
		attr.String("trigger", trigger),
		attr.String("version_id", res.VersionID),
		attr.Int("updated", res.Updated),
	)
	return nil
}
