package authservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/reelboard/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
}

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewService creates a new auth service.
func NewService(
	jwtProvider authjwt.Provider,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
) Service {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("auth")
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	return &service{
		jwtProvider: jwtProvider,
		config:      config,
		logger:      logger,
		tracer:      tracer,
		now:         time.Now,
	}
}

const DefaultTokenTTL = 24 * time.Hour

func (s *service) IssueToken(ctx context.Context, userID, username string, ttl time.Duration) (*TokenResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.IssueToken")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	now := s.now()
	token, err := s.jwtProvider.GenerateToken(&authdomain.Claims{
		UserID:   userID,
		Username: strings.TrimSpace(username),
		IssuedAt: now,
	}, ttl)
	if err != nil {
		span.RecordError(err)
		s.logger.ErrorContext(ctx, "Failed to generate token",
			attr.UserID(userID),
			attr.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrGenerateToken, err)
	}

	s.logger.InfoContext(ctx, "Issued bearer token",
		attr.UserID(userID),
		attr.Duration("ttl", ttl),
	)
	return &TokenResponse{Token: token, UserID: userID, ExpiresAt: now.Add(ttl)}, nil
}

func (s *service) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	_, span := s.tracer.Start(ctx, "AuthService.ValidateToken")
	defer span.End()

	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return claims, nil
}
