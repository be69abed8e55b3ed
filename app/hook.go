package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 30 * time.Second

// Close stops the HTTP server, lets an in-flight leaderboard publish finish,
// then closes the router, event bus and database in that order.
func (app *App) Close(ctx context.Context) error {
	logger := app.Observability.Logger
	ctx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	var errs []error
	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if app.Modules != nil {
		if app.Modules.LeaderboardModule != nil {
			if err := app.Modules.LeaderboardModule.Close(ctx); err != nil {
				errs = append(errs, fmt.Errorf("leaderboard module: %w", err))
			}
		}
		if app.Modules.VideoModule != nil {
			_ = app.Modules.VideoModule.Close()
		}
		if app.Modules.AuthModule != nil {
			_ = app.Modules.AuthModule.Close()
		}
	}

	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("watermill router: %w", err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.ErrorContext(ctx, "Shutdown finished with errors", attr.Error(err))
	} else {
		logger.InfoContext(ctx, "Application shut down gracefully")
	}
	return err
}
