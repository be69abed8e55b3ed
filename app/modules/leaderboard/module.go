package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/router"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/pkg/eventbus"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Queue              *leaderboardqueue.Service
	logger             *slog.Logger
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates the leaderboard module. The River queue is
// always created; it only works jobs when the scheduler runs in this process.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	requireAuth func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	service := NewService(cfg, obs, db, eventBus)

	queue, err := leaderboardqueue.NewService(ctx, db, service, logger,
		observability.NewOperationMetrics(obs.Registry, "leaderboard_queue"),
		leaderboardqueue.Config{
			DSN:      cfg.Postgres.DSN,
			Interval: cfg.Leaderboard.ScheduleInterval,
			Timeout:  cfg.Leaderboard.JobTimeout,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard queue: %w", err)
	}

	module := &Module{
		LeaderboardService: service,
		Queue:              queue,
		logger:             logger,
	}

	if router != nil {
		module.LeaderboardRouter = leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, obs.Tracer, obs.Registry)
		if err := module.LeaderboardRouter.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(service, logger)); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
	}

	if httpRouter != nil {
		leaderboardhandlers.NewHTTPHandlers(service, logger).Mount(httpRouter, requireAuth)
	}

	return module, nil
}

// NewService builds the leaderboard service alone, for one-shot commands.
// A nil publisher skips outcome events.
func NewService(cfg *config.Config, obs *observability.Observability, db *bun.DB, publisher message.Publisher) *leaderboardservice.LeaderboardService {
	return leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		publisher,
		obs.Logger,
		observability.NewOperationMetrics(obs.Registry, "leaderboard"),
		obs.Tracer,
		leaderboardservice.Config{
			TopN:                 cfg.Leaderboard.TopN,
			RetainVersions:       cfg.Leaderboard.RetainVersions,
			JobTimeout:           cfg.Leaderboard.JobTimeout,
			ReducerViewsTieBreak: cfg.Leaderboard.ReducerViewsTieBreak,
		},
	)
}

// Run starts the River queue and blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	// River stops hard when its start context ends; Close stops it gracefully.
	if err := m.Queue.Start(context.WithoutCancel(ctx)); err != nil {
		m.logger.ErrorContext(ctx, "Leaderboard queue failed to start", attr.Error(err))
		return
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the queue, letting an in-flight publish finish.
func (m *Module) Close(ctx context.Context) error {
	m.logger.Info("Stopping leaderboard module")
	var err error
	if m.Queue != nil {
		err = m.Queue.Stop(ctx)
	}
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return err
}
