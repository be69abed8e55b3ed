package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService holds the shared connection pool and the module repositories built on it.
type DBService struct {
	VideoDB       videodb.Repository
	LeaderboardDB leaderboarddb.Repository
	db            *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return NewTestDBService(BunDB(sqldb))
}

// NewTestDBService wraps an existing bun.DB, e.g. one pointed at a test container.
func NewTestDBService(db *bun.DB) (*DBService, error) {
	if db == nil {
		return nil, fmt.Errorf("failed to initialize bun.DB")
	}

	return &DBService{
		VideoDB:       videodb.NewRepository(db),
		LeaderboardDB: leaderboarddb.NewRepository(db),
		db:            db,
	}, nil
}

// BunDB returns a new bun.DB for the given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	sqldb.SetMaxOpenConns(20)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}
