package contentgen

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	contentgenservice "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/application"
	contentgenclient "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/infrastructure/generator"
	contentgenhandlers "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/infrastructure/handlers"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/go-chi/chi/v5"
)

// Module wires the external text generation boundary.
type Module struct {
	service contentgenservice.Service
	logger  *slog.Logger
}

// NewModule creates the module. Without an endpoint the route still exists
// and answers 503.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	httpRouter chi.Router,
	middlewares ...func(http.Handler) http.Handler,
) (*Module, error) {
	logger := obs.Logger

	var generator contentgenclient.Generator
	client, err := contentgenclient.NewClient(ctx, cfg.ContentGen)
	switch {
	case err == nil:
		generator = client
	case errors.Is(err, contentgenclient.ErrNotConfigured):
		logger.WarnContext(ctx, "Content generation disabled: no endpoint configured")
	default:
		return nil, err
	}

	service := contentgenservice.NewContentService(
		generator,
		logger,
		observability.NewOperationMetrics(obs.Registry, "contentgen"),
		obs.Tracer,
	)

	if httpRouter != nil {
		contentgenhandlers.NewContentHandlers(service, logger).Mount(httpRouter, middlewares...)
	}

	return &Module{service: service, logger: logger}, nil
}

// GetService returns the content service.
func (m *Module) GetService() contentgenservice.Service {
	return m.service
}
