package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// Run starts the modules, the Watermill router and the HTTP server, and
// blocks until ctx is cancelled or the server fails. Resources are released
// before it returns.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go app.Modules.AuthModule.Run(runCtx, &wg)
	go app.Modules.VideoModule.Run(runCtx, &wg)
	go app.Modules.LeaderboardModule.Run(runCtx, &wg)

	routerErr := make(chan error, 1)
	go func() {
		if err := app.Router.Run(runCtx); err != nil {
			routerErr <- fmt.Errorf("watermill router: %w", err)
		}
	}()
	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		cancel()
		wg.Wait()
		_ = app.Close(context.WithoutCancel(ctx))
		return err
	}

	app.server = &http.Server{
		Addr:         app.Config.HTTP.Address,
		Handler:      app.HTTPRouter,
		ReadTimeout:  app.Config.HTTP.ReadTimeout,
		WriteTimeout: app.Config.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", app.server.Addr))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutdown requested")
	case err := <-serverErr:
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-routerErr:
		runErr = err
	}

	closeErr := app.Close(context.WithoutCancel(ctx))
	cancel()
	wg.Wait()

	return errors.Join(runErr, closeErr)
}
