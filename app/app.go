package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/reelboard/app/modules/auth"
	"github.com/Black-And-White-Club/reelboard/app/modules/contentgen"
	"github.com/Black-And-White-Club/reelboard/app/modules/leaderboard"
	leaderboardevents "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/reelboard/app/modules/video"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/db/bundb"
	"github.com/Black-And-White-Club/reelboard/pkg/eventbus"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

// App holds the process-wide dependencies and the modules built on them.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    *chi.Mux
	Modules       *Modules
	server        *http.Server
}

// Modules holds all application modules.
type Modules struct {
	AuthModule        *auth.Module
	VideoModule       *video.Module
	LeaderboardModule *leaderboard.Module
	ContentGenModule  *contentgen.Module
}

// NewApp connects to Postgres and NATS and builds every module. Call Close
// to release resources when Run is not used.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, eventbus.Options{
		URL:          cfg.NATS.URL,
		NKeySeed:     cfg.NATS.NKeySeed,
		ConsumerName: "reelboard",
		Streams:      []string{leaderboardevents.LeaderboardStreamName},
	}, logger)
	if err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = bus.Close()
		_ = dbService.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            dbService,
		EventBus:      bus,
		Router:        router,
		HTTPRouter:    newHTTPRouter(cfg, obs),
	}

	if err := app.initializeModules(ctx); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}

	logger.InfoContext(ctx, "Application initialized")
	return app, nil
}

func (app *App) initializeModules(ctx context.Context) error {
	cfg, obs, db := app.Config, app.Observability, app.DB.GetDB()

	authModule, err := auth.NewModule(ctx, cfg, obs, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize auth module: %w", err)
	}

	videoModule, err := video.NewModule(ctx, cfg, obs, db, app.HTTPRouter, authModule.RequireAuth(), authModule.OptionalAuth())
	if err != nil {
		return fmt.Errorf("failed to initialize video module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, db, app.EventBus, app.Router, app.HTTPRouter, authModule.RequireAuth())
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	contentModule, err := contentgen.NewModule(ctx, cfg, obs, app.HTTPRouter, authModule.RequireAuth(), authModule.RateLimit())
	if err != nil {
		return fmt.Errorf("failed to initialize content generation module: %w", err)
	}

	app.Modules = &Modules{
		AuthModule:        authModule,
		VideoModule:       videoModule,
		LeaderboardModule: leaderboardModule,
		ContentGenModule:  contentModule,
	}
	return nil
}
