// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Black-And-White-Club/reelboard/pkg/observability"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
)

// Result is one outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the incoming JSON payload into T, runs handler
// and publishes each of its results to the result's topic, keeping the
// correlation id of the incoming message.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
	publisher message.Publisher,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	if metrics == nil {
		metrics = observability.NewNoopOperationMetrics()
	}

	return func(msg *message.Message) error {
		ctx := msg.Context()
		correlationID := middleware.MessageCorrelationID(msg)
		ctx = attr.WithCorrelationID(ctx, correlationID)

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("correlation_id", correlationID),
		))
		defer span.End()

		start := time.Now()
		metrics.RecordOperationAttempt(ctx, handlerName)
		defer func() {
			metrics.RecordOperationDuration(ctx, handlerName, time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.String("handler", handlerName),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			span.SetStatus(codes.Error, "unmarshal")
			// Poison messages are acked and dropped.
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler returned error",
				attr.String("handler", handlerName),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			span.RecordError(err)
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		if err := PublishResults(ctx, publisher, results); err != nil {
			logger.ErrorContext(ctx, "Failed to publish handler results",
				attr.String("handler", handlerName),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName)
			span.RecordError(err)
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		metrics.RecordOperationSuccess(ctx, handlerName)
		return nil
	}
}

// NewMessage marshals payload to JSON and stamps the correlation id from ctx,
// generating one when ctx has none.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), body)
	correlationID := attr.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)
	return msg, nil
}

// PublishResults publishes each result to its own topic.
func PublishResults(ctx context.Context, publisher message.Publisher, results []Result) error {
	for _, r := range results {
		msg, err := NewMessage(ctx, r.Payload)
		if err != nil {
			return err
		}
		for k, v := range r.Metadata {
			msg.Metadata.Set(k, v)
		}
		if err := publisher.Publish(r.Topic, msg); err != nil {
			return fmt.Errorf("failed to publish %s: %w", r.Topic, err)
		}
	}
	return nil
}
