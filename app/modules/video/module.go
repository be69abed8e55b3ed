package video

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	videoservice "github.com/Black-And-White-Club/reelboard/app/modules/video/application"
	videohandlers "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/handlers"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module wires the video store, service and HTTP routes.
type Module struct {
	service    videoservice.Service
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewModule creates the video module. Routes are registered on httpRouter
// when it is non-nil; requireAuth guards the mutating endpoints and
// optionalAuth identifies readers.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	httpRouter chi.Router,
	requireAuth func(http.Handler) http.Handler,
	optionalAuth func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing video module")

	repo := videodb.NewRepository(db)
	metrics := observability.NewOperationMetrics(obs.Registry, "video")
	service := videoservice.NewVideoService(
		repo,
		logger,
		metrics,
		obs.Tracer,
		db,
		cfg.Video.MaxUploadBytes,
		cfg.Video.FeedPageSize,
	)

	if httpRouter != nil {
		videohandlers.NewVideoHandlers(service, logger).Mount(httpRouter, requireAuth, optionalAuth)
	}

	return &Module{service: service, logger: logger}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()
	if wg != nil {
		defer wg.Done()
	}
	<-ctx.Done()
	m.logger.InfoContext(ctx, "Video module goroutine stopped")
}

func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

// GetService returns the video service for use by other modules.
func (m *Module) GetService() videoservice.Service {
	return m.service
}
