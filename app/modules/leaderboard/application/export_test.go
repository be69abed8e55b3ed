package leaderboardservice

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	leaderboarddb "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

func entriesRepo() *FakeLeaderboardRepo {
	repo := NewFakeLeaderboardRepo()
	repo.GetCurrentEntriesFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddb.EntryRow, error) {
		return []leaderboarddb.EntryRow{
			{Rank: 1, UserID: "u1", Username: "ana", VideoID: "v1", VideoTitle: "Kickflip", Score: 100, Likes: 10, Views: 40},
			{Rank: 2, UserID: "u2", Username: "bo", VideoID: "v2", VideoTitle: "Ollie", Score: 35, Likes: 3, Views: 20},
		}, nil
	}
	return repo
}

func TestExportWorkbook(t *testing.T) {
	data, err := newTestService(entriesRepo(), nil, Config{}).ExportWorkbook(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Rank", rows[0][0])
	assert.Equal(t, []string{"1", "ana", "u1", "Kickflip", "v1", "100", "10", "40"}, rows[1])
}

func TestRenderChart(t *testing.T) {
	for name, repo := range map[string]*FakeLeaderboardRepo{
		"with entries": entriesRepo(),
		"empty":        NewFakeLeaderboardRepo(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := newTestService(repo, nil, Config{}).RenderChart(context.Background(), 10)
			require.NoError(t, err)
			_, err = png.Decode(bytes.NewReader(data))
			assert.NoError(t, err)
		})
	}
}

func TestGenerateScoreChart_NoBarsRendersPlaceholder(t *testing.T) {
	data, err := GenerateScoreChart(nil, DefaultPalette)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderChart_CapsLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		topN  int
		want  int
	}{
		{name: "default uses top n", limit: 0, topN: 10, want: 10},
		{name: "within cap", limit: 25, topN: 10, want: 25},
		{name: "huge request capped", limit: 1_000_000, topN: 10, want: MaxChartBars},
		{name: "large top n capped", limit: 0, topN: 500, want: MaxChartBars},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLimit := -1
			repo := NewFakeLeaderboardRepo()
			repo.GetCurrentEntriesFunc = func(ctx context.Context, db bun.IDB, limit int) ([]leaderboarddb.EntryRow, error) {
				gotLimit = limit
				return nil, nil
			}

			_, err := newTestService(repo, nil, Config{TopN: tt.topN}).RenderChart(context.Background(), tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, gotLimit)
		})
	}
}
