package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/reelboard/app"
	"github.com/Black-And-White-Club/reelboard/app/modules/auth"
	"github.com/Black-And-White-Club/reelboard/app/modules/leaderboard"
	leaderboardqueue "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/queue"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/Black-And-White-Club/reelboard/db/bundb"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "reelboard",
		Usage: "short video feed and leaderboard backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			recomputeCommand(),
			scheduleRecomputeCommand(),
			jobsCommand(),
			issueTokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads config and observability for every subcommand.
func setup(c *cli.Context) (*config.Config, *observability.Observability, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, observability.Init(config.ToObsConfig(cfg)), nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, event handlers and leaderboard scheduler",
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.NewApp(ctx, cfg, obs)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			obs.Logger.InfoContext(ctx, "Starting reelboard", attr.String("address", cfg.HTTP.Address))
			if err := application.Run(ctx); err != nil {
				obs.Logger.ErrorContext(ctx, "Application stopped with error", attr.Error(err))
				return err
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return obs.Shutdown(shutdownCtx)
		},
	}
}

func recomputeCommand() *cli.Command {
	return &cli.Command{
		Name:  "recompute",
		Usage: "recompute and publish the leaderboard once, then exit",
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}

			dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres)
			if err != nil {
				return err
			}
			defer dbService.Close()

			// No event bus here, so outcome events are skipped.
			service := leaderboard.NewService(cfg, obs, dbService.GetDB(), nil)
			result, err := service.RecomputeLeaderboard(c.Context, "cli")
			if err != nil {
				return fmt.Errorf("recompute failed: %w", err)
			}
			return printJSON(result)
		},
	}
}

func scheduleRecomputeCommand() *cli.Command {
	return &cli.Command{
		Name:  "schedule-recompute",
		Usage: "enqueue a one-off recompute, e.g. --at \"in 2 hours\"",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "at", Required: true, Usage: "natural language or RFC3339 time"},
			&cli.StringFlag{Name: "trigger", Usage: "label recorded on the job"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}

			at, err := leaderboardqueue.ParseWhen(c.String("at"), time.Now())
			if err != nil {
				return err
			}

			queue, closeFn, err := openQueue(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := queue.ScheduleRecompute(c.Context, at, c.String("trigger"))
			if err != nil {
				return err
			}
			fmt.Printf("Scheduled recompute job %d at %s\n", id, at.Format(time.RFC3339))
			return nil
		},
	}
}

func jobsCommand() *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "list pending leaderboard jobs",
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}

			queue, closeFn, err := openQueue(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			defer closeFn()

			jobs, err := queue.PendingJobs(c.Context)
			if err != nil {
				return err
			}
			return printJSON(jobs)
		},
	}
}

func issueTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-token",
		Usage: "mint a bearer token for a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "username"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime, defaults to the configured TTL"},
		},
		Action: func(c *cli.Context) error {
			cfg, obs, err := setup(c)
			if err != nil {
				return err
			}

			module, err := auth.NewModule(c.Context, cfg, obs, nil)
			if err != nil {
				return err
			}
			defer module.Close()

			token, err := module.GetService().IssueToken(c.Context, c.String("user-id"), c.String("username"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			return printJSON(token)
		},
	}
}

// openQueue builds an insert-only queue client over its own DB connection.
func openQueue(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*leaderboardqueue.Service, func(), error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}

	queue, err := leaderboardqueue.NewService(ctx, dbService.GetDB(), nil, obs.Logger, nil, leaderboardqueue.Config{
		DSN: cfg.Postgres.DSN,
	})
	if err != nil {
		dbService.Close()
		return nil, nil, err
	}

	return queue, func() {
		_ = queue.Stop(context.Background())
		dbService.Close()
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
