package leaderboardintegrationtests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black-And-White-Club/reelboard/app/modules/leaderboard"
	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain/events"
	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/integration_tests/testutils"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
)

type testDeps struct {
	ctx     context.Context
	env     *testutils.TestEnvironment
	service *leaderboardservice.LeaderboardService
	gen     *testutils.TestDataGenerator
}

func setup(t *testing.T) testDeps {
	t.Helper()
	env := testutils.GetTestEnv(t)
	ctx, cancel := context.WithTimeout(env.Ctx, time.Minute)
	t.Cleanup(cancel)
	require.NoError(t, env.Reset(ctx))

	// A fresh registry per service; metrics register once per registry.
	return testDeps{
		ctx:     ctx,
		env:     env,
		service: leaderboard.NewService(env.Config, observability.NewNoop(), env.DB, env.EventBus),
		gen:     testutils.NewTestDataGenerator(7),
	}
}

func TestRecomputeLeaderboard_RanksBestVideoPerUser(t *testing.T) {
	d := setup(t)
	base := time.Now().Add(-time.Hour).UTC()

	ana := d.gen.InsertUser(t, d.ctx, d.env.DB)
	bo := d.gen.InsertUser(t, d.ctx, d.env.DB)
	anon := d.gen.User()
	anon.Username = ""
	_, err := d.env.DB.NewInsert().Model(anon).Exec(d.ctx)
	require.NoError(t, err)

	top := d.gen.InsertVideo(t, d.ctx, d.env.DB, ana.ID, 10, 40, base)
	d.gen.InsertVideo(t, d.ctx, d.env.DB, ana.ID, 1, 1, base.Add(time.Second))
	mid := d.gen.InsertVideo(t, d.ctx, d.env.DB, bo.ID, 5, 20, base.Add(2*time.Second))
	zero := d.gen.InsertVideo(t, d.ctx, d.env.DB, anon.ID, 0, 0, base.Add(3*time.Second))

	result, err := d.service.RecomputeLeaderboard(d.ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)
	assert.NotEmpty(t, result.VersionID)

	view, err := d.service.GetLeaderboard(d.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, result.VersionID, view.VersionID)

	want := []struct {
		videoID string
		score   int
	}{{top.ID, 100}, {mid.ID, 50}, {zero.ID, 0}}
	require.Len(t, view.Entries, len(want))
	for i, w := range want {
		e := view.Entries[i]
		assert.Equal(t, i+1, e.Rank)
		assert.Equal(t, w.videoID, e.VideoID)
		assert.Equal(t, w.score, e.Score)
	}
	assert.Equal(t, ana.Username, view.Entries[0].Username)
	assert.Equal(t, leaderboarddomain.AnonymousUsername, view.Entries[2].Username)
}

func TestRecomputeLeaderboard_EmptyCorpusPublishesEmptyVersion(t *testing.T) {
	d := setup(t)

	before, err := d.service.GetLeaderboard(d.ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, before.VersionID, "nothing published yet")
	assert.Empty(t, before.Entries)

	result, err := d.service.RecomputeLeaderboard(d.ctx, "test")
	require.NoError(t, err)
	assert.Zero(t, result.Updated)

	after, err := d.service.GetLeaderboard(d.ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, result.VersionID, after.VersionID)
	assert.Empty(t, after.Entries)
}

func TestRecomputeLeaderboard_RetainsRecentVersions(t *testing.T) {
	d := setup(t)
	owner := d.gen.InsertUser(t, d.ctx, d.env.DB)
	d.gen.InsertVideo(t, d.ctx, d.env.DB, owner.ID, 3, 3, time.Time{})

	var last string
	for range 5 {
		result, err := d.service.RecomputeLeaderboard(d.ctx, "test")
		require.NoError(t, err)
		last = result.VersionID
	}

	var versions []leaderboarddb.LeaderboardVersion
	require.NoError(t, d.env.DB.NewSelect().Model(&versions).Scan(d.ctx))
	assert.Len(t, versions, d.env.Config.Leaderboard.RetainVersions)

	current := 0
	for _, v := range versions {
		if v.IsCurrent {
			current++
			assert.Equal(t, last, v.ID.String())
		}
	}
	assert.Equal(t, 1, current, "exactly one current version")
}

func TestRecomputeLeaderboard_ConcurrentRunsLeaveOneCurrent(t *testing.T) {
	d := setup(t)
	owner := d.gen.InsertUser(t, d.ctx, d.env.DB)
	d.gen.InsertVideo(t, d.ctx, d.env.DB, owner.ID, 1, 1, time.Time{})

	errs := make(chan error, 4)
	for range 4 {
		go func() {
			_, err := d.service.RecomputeLeaderboard(d.ctx, "race")
			errs <- err
		}()
	}
	for range 4 {
		require.NoError(t, <-errs)
	}

	count, err := d.env.DB.NewSelect().
		Model((*leaderboarddb.LeaderboardVersion)(nil)).
		Where("is_current").
		Count(d.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecomputeLeaderboard_PublishesEvent(t *testing.T) {
	d := setup(t)
	owner := d.gen.InsertUser(t, d.ctx, d.env.DB)
	d.gen.InsertVideo(t, d.ctx, d.env.DB, owner.ID, 2, 2, time.Time{})

	messages, err := d.env.EventBus.Subscribe(d.ctx, leaderboardevents.PublishedV1)
	require.NoError(t, err)

	result, err := d.service.RecomputeLeaderboard(d.ctx, "test")
	require.NoError(t, err)

	deadline := time.After(15 * time.Second)
	for {
		select {
		case msg := <-messages:
			msg.Ack()
			var payload leaderboardevents.PublishedPayloadV1
			require.NoError(t, json.Unmarshal(msg.Payload, &payload))
			// Earlier tests may have published on the same stream.
			if payload.VersionID != result.VersionID {
				continue
			}
			assert.Equal(t, 1, payload.Updated)
			require.Len(t, payload.Top, 1)
			assert.Equal(t, owner.ID, payload.Top[0].UserID)
			return
		case <-deadline:
			t.Fatalf("no %s event for version %s", leaderboardevents.PublishedV1, result.VersionID)
		}
	}
}
