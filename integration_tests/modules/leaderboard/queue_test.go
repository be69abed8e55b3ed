package leaderboardintegrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardqueue "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/queue"
)

func TestQueue_ScheduleRecompute(t *testing.T) {
	d := setup(t)

	queue, err := leaderboardqueue.NewService(d.ctx, d.env.DB, nil, d.env.Obs.Logger, nil, leaderboardqueue.Config{
		DSN: d.env.Config.Postgres.DSN,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = queue.Stop(context.Background()) })

	require.NoError(t, queue.HealthCheck(d.ctx))

	_, err = queue.ScheduleRecompute(d.ctx, time.Now().Add(-time.Minute), "")
	assert.ErrorIs(t, err, leaderboardqueue.ErrScheduleInPast)

	at := time.Now().Add(time.Hour).Truncate(time.Second)
	id, err := queue.ScheduleRecompute(d.ctx, at, "ops")
	require.NoError(t, err)

	again, err := queue.ScheduleRecompute(d.ctx, at.Add(time.Minute), "ops")
	require.NoError(t, err)
	assert.Equal(t, id, again, "same trigger is deduplicated while pending")

	jobs, err := queue.PendingJobs(d.ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, id, jobs[0].ID)
	assert.Equal(t, "ops", jobs[0].Trigger)
	assert.Equal(t, "scheduled", jobs[0].State)
	require.NotNil(t, jobs[0].ScheduledAt)
	assert.WithinDuration(t, at, *jobs[0].ScheduledAt, time.Second)
}

func TestQueue_PeriodicJobPublishes(t *testing.T) {
	d := setup(t)
	owner := d.gen.InsertUser(t, d.ctx, d.env.DB)
	d.gen.InsertVideo(t, d.ctx, d.env.DB, owner.ID, 4, 4, time.Time{})

	queue, err := leaderboardqueue.NewService(d.ctx, d.env.DB, d.service, d.env.Obs.Logger, nil, leaderboardqueue.Config{
		DSN:      d.env.Config.Postgres.DSN,
		Interval: time.Hour,
		Timeout:  30 * time.Second,
	})
	require.NoError(t, err)
	require.NoError(t, queue.Start(context.Background()))
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue.Stop(stopCtx)
	})

	// The periodic job runs on start.
	require.Eventually(t, func() bool {
		view, err := d.service.GetLeaderboard(d.ctx, 0)
		return err == nil && len(view.Entries) == 1
	}, 20*time.Second, 250*time.Millisecond)
}
