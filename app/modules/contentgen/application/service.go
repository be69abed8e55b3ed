package contentgenservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	contentgendomain "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/domain"
	contentgenclient "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/infrastructure/generator"
	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/Black-And-White-Club/reelboard/pkg/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// GenerateResult carries generated text, or a validation or upstream
// rejection as the failure.
type GenerateResult = results.OperationResult[contentgendomain.Generated, error]

// Service generates titles and descriptions for uploads.
type Service interface {
	Generate(ctx context.Context, userID string, req contentgendomain.Request) (GenerateResult, error)
}

// ContentService implements Service.
type ContentService struct {
	generator contentgenclient.Generator
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
}

// NewContentService creates a ContentService. A nil generator makes every
// call fail with ErrNotConfigured.
func NewContentService(generator contentgenclient.Generator, logger *slog.Logger, metrics observability.OperationMetrics, tracer trace.Tracer) *ContentService {
	if metrics == nil {
		metrics = observability.NewNoopOperationMetrics()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("contentgen")
	}
	return &ContentService{generator: generator, logger: logger, metrics: metrics, tracer: tracer}
}

func (s *ContentService) Generate(ctx context.Context, userID string, req contentgendomain.Request) (GenerateResult, error) {
	const op = "Generate"
	ctx, span := s.tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("content.type", string(req.Type)),
		attribute.String("user_id", userID),
	))
	defer span.End()

	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, op)
	defer func() { s.metrics.RecordOperationDuration(ctx, op, time.Since(start)) }()

	if err := req.Validate(); err != nil {
		s.metrics.RecordOperationFailure(ctx, op)
		return results.FailureResult[contentgendomain.Generated, error](err), nil
	}
	if s.generator == nil {
		s.metrics.RecordOperationFailure(ctx, op)
		return GenerateResult{}, contentgenclient.ErrNotConfigured
	}

	text, err := s.generator.Generate(ctx, req)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, op)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, contentgenclient.ErrGenerationFailed) {
			s.logger.WarnContext(ctx, "Content generation declined",
				attr.UserID(userID),
				attr.String("type", string(req.Type)),
				attr.Error(err),
			)
			return results.FailureResult[contentgendomain.Generated, error](err), nil
		}
		s.logger.ErrorContext(ctx, "Content generation call failed",
			attr.UserID(userID),
			attr.Error(err),
		)
		return GenerateResult{}, fmt.Errorf("contentgen.Generate: %w", err)
	}

	out := contentgendomain.Normalize(text, req.Type)
	if out == "" {
		s.metrics.RecordOperationFailure(ctx, op)
		return results.FailureResult[contentgendomain.Generated, error](contentgenclient.ErrGenerationFailed), nil
	}

	s.metrics.RecordOperationSuccess(ctx, op)
	s.logger.InfoContext(ctx, "Content generated",
		attr.UserID(userID),
		attr.String("type", string(req.Type)),
		attr.Int("length", len(out)),
	)
	return results.SuccessResult[contentgendomain.Generated, error](contentgendomain.Generated{Result: out, Type: req.Type}), nil
}
