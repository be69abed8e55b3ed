package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
)

type FakeLeaderboardService struct {
	trace []string

	RecomputeLeaderboardFunc func(ctx context.Context, trigger string) (*leaderboardservice.PublishResult, error)
	RequestRecomputeFunc     func(ctx context.Context, requestedBy, reason string) error
	GetLeaderboardFunc       func(ctx context.Context, limit int) (*leaderboardservice.LeaderboardView, error)
	RenderChartFunc          func(ctx context.Context, limit int) ([]byte, error)
	ExportWorkbookFunc       func(ctx context.Context) ([]byte, error)
}

func (f *FakeLeaderboardService) Trace() []string {
	return append([]string(nil), f.trace...)
}

func (f *FakeLeaderboardService) RecomputeLeaderboard(ctx context.Context, trigger string) (*leaderboardservice.PublishResult, error) {
	f.trace = append(f.trace, "RecomputeLeaderboard:"+trigger)
	if f.RecomputeLeaderboardFunc != nil {
		return f.RecomputeLeaderboardFunc(ctx, trigger)
	}
	return &leaderboardservice.PublishResult{}, nil
}

func (f *FakeLeaderboardService) RequestRecompute(ctx context.Context, requestedBy, reason string) error {
	f.trace = append(f.trace, "RequestRecompute:"+requestedBy+":"+reason)
	if f.RequestRecomputeFunc != nil {
		return f.RequestRecomputeFunc(ctx, requestedBy, reason)
	}
	return nil
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context, limit int) (*leaderboardservice.LeaderboardView, error) {
	f.trace = append(f.trace, "GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, limit)
	}
	return &leaderboardservice.LeaderboardView{}, nil
}

func (f *FakeLeaderboardService) RenderChart(ctx context.Context, limit int) ([]byte, error) {
	f.trace = append(f.trace, "RenderChart")
	if f.RenderChartFunc != nil {
		return f.RenderChartFunc(ctx, limit)
	}
	return []byte("png"), nil
}

func (f *FakeLeaderboardService) ExportWorkbook(ctx context.Context) ([]byte, error) {
	f.trace = append(f.trace, "ExportWorkbook")
	if f.ExportWorkbookFunc != nil {
		return f.ExportWorkbookFunc(ctx)
	}
	return []byte("xlsx"), nil
}
