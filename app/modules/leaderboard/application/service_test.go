package leaderboardservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	leaderboarddomain "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain/events"
	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestService(repo *FakeLeaderboardRepo, pub *FakePublisher, cfg Config) *LeaderboardService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if pub == nil {
		return NewLeaderboardService(repo, nil, logger, nil, nil, cfg)
	}
	return NewLeaderboardService(repo, pub, logger, nil, nil, cfg)
}

func corpus() []leaderboarddb.CorpusRow {
	return []leaderboarddb.CorpusRow{
		{VideoID: "v-mid", Title: "mid", UserID: "u2", Username: "bo", Likes: 50, Views: 50},
		{VideoID: "v-top", Title: "top", UserID: "u1", Username: "ana", Likes: 100, Views: 100},
		{VideoID: "v-zero", Title: "zero", UserID: "u3", Likes: 0, Views: 0},
		{VideoID: "v-old", Title: "old", UserID: "u1", Username: "ana", Likes: 10, Views: 10},
	}
}

func TestRecomputeLeaderboard_PublishesRankedSnapshot(t *testing.T) {
	repo := NewFakeLeaderboardRepo()
	repo.ReadCorpusFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error) {
		return corpus(), nil
	}
	var gotSnapshot leaderboarddb.Snapshot
	var gotRetain int
	versionID := uuid.New()
	publishedAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	repo.PublishSnapshotFunc = func(ctx context.Context, db bun.IDB, s leaderboarddb.Snapshot, retain int) (*leaderboarddb.LeaderboardVersion, error) {
		gotSnapshot, gotRetain = s, retain
		return &leaderboarddb.LeaderboardVersion{ID: versionID, CreatedAt: publishedAt}, nil
	}
	pub := &FakePublisher{}

	res, err := newTestService(repo, pub, Config{TopN: 2, RetainVersions: 5}).RecomputeLeaderboard(context.Background(), "test")
	require.NoError(t, err)

	assert.Equal(t, []string{"ReadCorpus", "PublishSnapshot"}, repo.Trace())
	assert.Equal(t, 5, gotRetain)
	assert.Equal(t, 100, gotSnapshot.MaxLikes)
	assert.NotEmpty(t, gotSnapshot.CorpusFingerprint)

	wantEntries := []leaderboarddb.LeaderboardEntry{
		{VideoID: "v-top", UserID: "u1", Score: 100, Rank: 1, Likes: 100, Views: 100},
		{VideoID: "v-mid", UserID: "u2", Score: 50, Rank: 2, Likes: 50, Views: 50},
		{VideoID: "v-zero", UserID: "u3", Score: 0, Rank: 3, Likes: 0, Views: 0},
	}
	if diff := cmp.Diff(wantEntries, gotSnapshot.Entries); diff != "" {
		t.Errorf("snapshot entries mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, versionID.String(), res.VersionID)
	assert.Equal(t, publishedAt, res.PublishedAt)
	require.Len(t, res.Top, 2)
	assert.Equal(t, "ana", res.Top[0].Username)
	assert.Equal(t, "top", res.Top[0].VideoTitle)

	require.Equal(t, []string{leaderboardevents.PublishedV1}, pub.Topics())
	var payload leaderboardevents.PublishedPayloadV1
	require.NoError(t, json.Unmarshal(pub.Last().Payload, &payload))
	assert.Equal(t, 3, payload.Updated)
	assert.Len(t, payload.Top, 2)
}

func TestRecomputeLeaderboard_EmptyCorpus(t *testing.T) {
	repo := NewFakeLeaderboardRepo()
	pub := &FakePublisher{}

	res, err := newTestService(repo, pub, Config{}).RecomputeLeaderboard(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated)
	assert.Empty(t, res.Top)
	assert.Equal(t, []string{"ReadCorpus", "PublishSnapshot"}, repo.Trace())
	assert.Equal(t, []string{leaderboardevents.PublishedV1}, pub.Topics())
}

func TestRecomputeLeaderboard_ReadFailureWritesNothing(t *testing.T) {
	repo := NewFakeLeaderboardRepo()
	repo.ReadCorpusFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error) {
		return nil, errors.New("relation videos does not exist")
	}
	pub := &FakePublisher{}

	res, err := newTestService(repo, pub, Config{}).RecomputeLeaderboard(context.Background(), "test")
	require.ErrorIs(t, err, ErrCorpusRead)
	assert.Nil(t, res)
	assert.Equal(t, []string{"ReadCorpus"}, repo.Trace())

	require.Equal(t, []string{leaderboardevents.PublishFailedV1}, pub.Topics())
	var payload leaderboardevents.PublishFailedPayloadV1
	require.NoError(t, json.Unmarshal(pub.Last().Payload, &payload))
	assert.Contains(t, payload.Reason, "relation videos does not exist")
}

func TestRecomputeLeaderboard_PublishFailure(t *testing.T) {
	repo := NewFakeLeaderboardRepo()
	repo.PublishSnapshotFunc = func(ctx context.Context, db bun.IDB, s leaderboarddb.Snapshot, retain int) (*leaderboarddb.LeaderboardVersion, error) {
		return nil, errors.New("serialization failure")
	}
	pub := &FakePublisher{}

	_, err := newTestService(repo, pub, Config{}).RecomputeLeaderboard(context.Background(), "test")
	require.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, []string{leaderboardevents.PublishFailedV1}, pub.Topics())
}

func TestRecomputeLeaderboard_AppliesJobTimeout(t *testing.T) {
	repo := NewFakeLeaderboardRepo()
	repo.ReadCorpusFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := newTestService(repo, &FakePublisher{}, Config{JobTimeout: 20 * time.Millisecond}).RecomputeLeaderboard(context.Background(), "test")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"ReadCorpus"}, repo.Trace())
}

func TestRecomputeLeaderboard_ViewsTieBreakOption(t *testing.T) {
	rows := []leaderboarddb.CorpusRow{
		{VideoID: "a", UserID: "u1", Likes: 5, Views: 1},
		{VideoID: "b", UserID: "u1", Likes: 5, Views: 1},
		{VideoID: "c", UserID: "u2", Likes: 5, Views: 1},
	}
	// a and b tie on score and likes; only views can separate them, and they match.
	for _, tieBreak := range []bool{false, true} {
		repo := NewFakeLeaderboardRepo()
		repo.ReadCorpusFunc = func(ctx context.Context, db bun.IDB) ([]leaderboarddb.CorpusRow, error) { return rows, nil }
		res, err := newTestService(repo, nil, Config{ReducerViewsTieBreak: tieBreak}).RecomputeLeaderboard(context.Background(), "test")
		require.NoError(t, err)
		assert.Equal(t, "a", res.Top[0].VideoID, "first seen wins complete ties (tieBreak=%v)", tieBreak)
	}
}

func TestGetLeaderboard(t *testing.T) {
	versionID := uuid.New()
	published := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	t.Run("defaults limit and fills anonymous", func(t *testing.T) {
		repo := NewFakeLeaderboardRepo()
		var gotLimit int
		repo.GetCurrentEntriesFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddb.EntryRow, error) {
			gotLimit = limit
			return []leaderboarddb.EntryRow{
				{Rank: 1, UserID: "u1", Username: "ana", VideoID: "v1", Score: 90, VersionID: versionID, CreatedAt: published},
				{Rank: 2, UserID: "u2", VideoID: "v2", Score: 40, VersionID: versionID, CreatedAt: published},
			}, nil
		}

		view, err := newTestService(repo, nil, Config{TopN: 10}).GetLeaderboard(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 10, gotLimit)
		assert.Equal(t, versionID.String(), view.VersionID)
		assert.Equal(t, published, *view.PublishedAt)
		require.Len(t, view.Entries, 2)
		assert.Equal(t, leaderboarddomain.AnonymousUsername, view.Entries[1].Username)
	})

	t.Run("nothing published", func(t *testing.T) {
		repo := NewFakeLeaderboardRepo()
		view, err := newTestService(repo, nil, Config{}).GetLeaderboard(context.Background(), 5)
		require.NoError(t, err)
		assert.Empty(t, view.Entries)
		assert.Empty(t, view.VersionID)
		assert.Nil(t, view.PublishedAt)
	})

	t.Run("empty current version", func(t *testing.T) {
		repo := NewFakeLeaderboardRepo()
		repo.GetCurrentVersionFunc = func(ctx context.Context, db bun.IDB) (*leaderboarddb.LeaderboardVersion, error) {
			return &leaderboarddb.LeaderboardVersion{ID: versionID, CreatedAt: published}, nil
		}
		view, err := newTestService(repo, nil, Config{}).GetLeaderboard(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, versionID.String(), view.VersionID)
		assert.Empty(t, view.Entries)
	})
}

func TestRequestRecompute(t *testing.T) {
	pub := &FakePublisher{}
	err := newTestService(NewFakeLeaderboardRepo(), pub, Config{}).RequestRecompute(context.Background(), "u1", "manual")
	require.NoError(t, err)
	require.Equal(t, []string{leaderboardevents.RecomputeRequestedV1}, pub.Topics())

	var payload leaderboardevents.RecomputeRequestedPayloadV1
	require.NoError(t, json.Unmarshal(pub.Last().Payload, &payload))
	assert.Equal(t, leaderboardevents.RecomputeRequestedPayloadV1{RequestedBy: "u1", Reason: "manual"}, payload)
}
