package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// IssueToken mints a bearer token for a user. ttl <= 0 uses the configured default.
	IssueToken(ctx context.Context, userID, username string, ttl time.Duration) (*TokenResponse, error)

	// ValidateToken validates a bearer token and returns the claims if valid.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

// TokenResponse is returned by IssueToken.
type TokenResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
