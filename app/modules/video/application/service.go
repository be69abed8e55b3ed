package videoservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// VideoService implements Service.
type VideoService struct {
	repo           videodb.Repository
	logger         *slog.Logger
	metrics        observability.OperationMetrics
	tracer         trace.Tracer
	db             *bun.DB
	maxUploadBytes int64
	feedPageSize   int
}

// NewVideoService creates a new VideoService. A nil tracer or metrics falls
// back to a no-op implementation.
func NewVideoService(
	repo videodb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	maxUploadBytes int64,
	feedPageSize int,
) *VideoService {
	if metrics == nil {
		metrics = observability.NewNoopOperationMetrics()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("video")
	}
	return &VideoService{
		repo:           repo,
		logger:         logger,
		metrics:        metrics,
		tracer:         tracer,
		db:             db,
		maxUploadBytes: maxUploadBytes,
		feedPageSize:   feedPageSize,
	}
}

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *VideoService,
	ctx context.Context,
	operationName string,
	videoID string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("video_id", videoID),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.VideoID(videoID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.VideoID(videoID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.VideoID(videoID),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.logger.DebugContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.VideoID(videoID),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *VideoService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
