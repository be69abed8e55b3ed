package leaderboardhandlers

import (
	"context"
	"errors"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
	leaderboardevents "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/domain/events"
	"github.com/Black-And-White-Club/reelboard/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// Handlers defines the leaderboard event handlers.
type Handlers interface {
	HandleRecomputeRequested(ctx context.Context, payload *leaderboardevents.RecomputeRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

// LeaderboardHandlers handles leaderboard-related events.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) *LeaderboardHandlers {
	return &LeaderboardHandlers{service: service, logger: logger}
}

// HandleRecomputeRequested runs a recompute. The service emits the outcome
// event itself, so no results are returned. Failed runs are acknowledged so
// they are not redelivered; the periodic job is the retry path.
func (h *LeaderboardHandlers) HandleRecomputeRequested(ctx context.Context, payload *leaderboardevents.RecomputeRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.InfoContext(ctx, "Leaderboard recompute requested",
		attr.String("requested_by", payload.RequestedBy),
		attr.String("reason", payload.Reason),
		attr.ExtractCorrelationID(ctx),
	)

	trigger := "event"
	if payload.RequestedBy != "" {
		trigger = "event:" + payload.RequestedBy
	}

	if _, err := h.service.RecomputeLeaderboard(ctx, trigger); err != nil {
		if errors.Is(err, leaderboardservice.ErrCorpusRead) || errors.Is(err, leaderboardservice.ErrPublish) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		return nil, err
	}
	return nil, nil
}
