package leaderboardqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

var (
	// ErrScheduleInPast is returned when a one-off run is requested for a time already gone.
	ErrScheduleInPast = errors.New("scheduled time must be in the future")
	ErrClientNotReady = errors.New("river client is nil")
)

// QueueService defines the contract for leaderboard job scheduling.
type QueueService interface {
	// ScheduleRecompute enqueues a one-off recompute to run at the given time.
	ScheduleRecompute(ctx context.Context, at time.Time, trigger string) (int64, error)
	// PendingJobs lists recompute jobs that have not run yet.
	PendingJobs(ctx context.Context) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Config controls the periodic schedule and job timeout.
type Config struct {
	DSN      string
	Interval time.Duration
	Timeout  time.Duration
}

// Service handles leaderboard job scheduling using River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics observability.OperationMetrics
	now     func() time.Time
}

// NewService creates a River-backed queue. When recomputer is nil the client
// is insert-only: it can schedule jobs but never works them.
func NewService(ctx context.Context, bunDB *bun.DB, recomputer Recomputer, logger *slog.Logger, metrics observability.OperationMetrics, cfg Config) (*Service, error) {
	if metrics == nil {
		metrics = observability.NewNoopOperationMetrics()
	}
	ctxLogger := logger.With(
		attr.String("component", "river_queue"),
		attr.String("queue", QueueName),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service")
	defer func() { metrics.RecordOperationDuration(ctx, "initialize_service", time.Since(start)) }()

	// River requires pgx, not database/sql.
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		metrics.RecordOperationFailure(ctx, "initialize_service")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	riverCfg := &river.Config{}
	if recomputer != nil {
		workers := river.NewWorkers()
		river.AddWorker(workers, NewRecomputeWorker(recomputer, ctxLogger, cfg.Timeout))

		riverCfg.Workers = workers
		riverCfg.Queues = map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
			// One worker keeps publishes serial within a process.
			QueueName: {MaxWorkers: 1},
		}
		if cfg.Interval > 0 {
			riverCfg.PeriodicJobs = []*river.PeriodicJob{
				river.NewPeriodicJob(
					river.PeriodicInterval(cfg.Interval),
					func() (river.JobArgs, *river.InsertOpts) {
						return RecomputeJob{Trigger: "schedule"}, &river.InsertOpts{Queue: QueueName}
					},
					&river.PeriodicJobOpts{RunOnStart: true},
				),
			}
		}
	}

	client, err := river.NewClient(riverpgxv5.New(pool), riverCfg)
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service")
	ctxLogger.InfoContext(ctx, "Leaderboard queue service initialized",
		attr.Bool("worker", recomputer != nil),
		attr.Duration("interval", cfg.Interval),
	)

	return &Service{
		client:  client,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

// Start starts the River workers and periodic schedule.
func (s *Service) Start(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "start_service")
	if err := s.client.Start(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service")
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "start_service")
	s.logger.InfoContext(ctx, "Leaderboard queue service started")
	return nil
}

// Stop waits for running jobs to finish and releases the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.metrics.RecordOperationAttempt(ctx, "stop_service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.metrics.RecordOperationSuccess(ctx, "stop_service")
	s.logger.InfoContext(ctx, "Leaderboard queue service stopped")
	return nil
}

// ScheduleRecompute enqueues a one-off recompute at the given time.
func (s *Service) ScheduleRecompute(ctx context.Context, at time.Time, trigger string) (int64, error) {
	s.metrics.RecordOperationAttempt(ctx, "schedule_recompute")

	now := s.now()
	if !at.After(now) {
		s.metrics.RecordOperationFailure(ctx, "schedule_recompute")
		return 0, ErrScheduleInPast
	}
	if trigger == "" {
		trigger = "scheduled:" + at.UTC().Format(time.RFC3339)
	}

	res, err := s.client.Insert(ctx, RecomputeJob{Trigger: trigger}, &river.InsertOpts{
		Queue:       QueueName,
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to schedule leaderboard recompute", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_recompute")
		return 0, fmt.Errorf("failed to schedule recompute job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_recompute")
	s.logger.InfoContext(ctx, "Leaderboard recompute scheduled",
		attr.Int64("job_id", res.Job.ID),
		attr.Time("scheduled_at", at),
		attr.Duration("delay", at.Sub(now)),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return res.Job.ID, nil
}

type riverJobRow struct {
	ID          int64          `bun:"id"`
	Kind        string         `bun:"kind"`
	State       string         `bun:"state"`
	Args        map[string]any `bun:"args,type:jsonb"`
	ScheduledAt *time.Time     `bun:"scheduled_at"`
	CreatedAt   time.Time      `bun:"created_at"`
	Attempt     int16          `bun:"attempt"`
	MaxAttempts int16          `bun:"max_attempts"`
}

// PendingJobs lists available and scheduled recompute jobs, soonest first.
func (s *Service) PendingJobs(ctx context.Context) ([]JobInfo, error) {
	var rows []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "args", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", RecomputeJob{}.Kind()).
		Where("state IN (?, ?)", "available", "scheduled").
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending jobs: %w", err)
	}

	out := make([]JobInfo, len(rows))
	for i, r := range rows {
		trigger, _ := r.Args["trigger"].(string)
		out[i] = JobInfo{
			ID:          r.ID,
			Kind:        r.Kind,
			Trigger:     trigger,
			State:       r.State,
			ScheduledAt: r.ScheduledAt,
			CreatedAt:   r.CreatedAt,
			Attempt:     int(r.Attempt),
			MaxAttempts: int(r.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the queue tables are reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return ErrClientNotReady
	}
	var count int
	if err := s.db.NewSelect().Table("river_job").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
