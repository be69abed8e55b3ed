package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	authservice "github.com/Black-And-White-Club/reelboard/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/reelboard/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/reelboard/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// ErrMissingSecret is returned when the module is built without a signing secret.
var ErrMissingSecret = errors.New("jwt secret is not configured")

// Module represents the auth module. It owns the token provider and hands
// out the middleware other modules mount on their protected routes.
type Module struct {
	config     *config.Config
	service    authservice.Service
	provider   authjwt.Provider
	handlers   *authhandlers.AuthHandlers
	limiter    *authhandlers.IPRateLimiter
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewModule creates a new auth module and registers /api/auth routes on
// httpRouter when it is non-nil.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "Initializing auth module")

	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}

	provider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	service := authservice.NewService(provider, authservice.Config{DefaultTTL: cfg.JWT.DefaultTTL}, logger, obs.Tracer)
	handlers := authhandlers.NewAuthHandlers(logger)

	m := &Module{
		config:   cfg,
		service:  service,
		provider: provider,
		handlers: handlers,
		limiter:  authhandlers.NewIPRateLimiter(rate.Every(time.Second), 20),
		logger:   logger,
	}

	if httpRouter != nil {
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(m.RateLimit())
			r.With(m.RequireAuth()).Get("/session", handlers.HandleSession)
		})
	}

	return m, nil
}

// RequireAuth returns middleware rejecting requests without a valid bearer token.
func (m *Module) RequireAuth() func(http.Handler) http.Handler {
	return authhandlers.RequireAuth(m.provider, m.logger)
}

// OptionalAuth returns middleware that attaches claims when a token is present.
func (m *Module) OptionalAuth() func(http.Handler) http.Handler {
	return authhandlers.OptionalAuth(m.provider)
}

// RateLimit returns the shared per-IP limiter middleware.
func (m *Module) RateLimit() func(http.Handler) http.Handler {
	return authhandlers.RateLimitMiddleware(m.limiter)
}

// Run blocks until ctx is cancelled. The module has no background work.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()
	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Auth module goroutine stopped")
}

// Close stops the auth module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
