package authjwt

import (
	"errors"
	"os"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
)

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "test-secret-at-least-32-chars-long!!"
	}
	p := NewProvider(secret, "reelboard", "reelboard-app")

	claims := &authdomain.Claims{
		UserID:   "user-123",
		Username: "ana",
	}

	tests := []struct {
		name        string
		setupClaims *authdomain.Claims
		rawToken    string
		ttl         time.Duration
		provider    Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name:        "success",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.UserID != claims.UserID {
					t.Errorf("expected userID %s, got %s", claims.UserID, validated.UserID)
				}
				if validated.Username != claims.Username {
					t.Errorf("expected username %s, got %s", claims.Username, validated.Username)
				}
				if validated.IsExpired() {
					t.Error("fresh token reported as expired")
				}
			},
		},
		{
			name:        "expired token",
			setupClaims: claims,
			ttl:         -1 * time.Hour,
			expectedErr: ErrExpiredToken,
		},
		{
			name:        "invalid signature",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider("wrong-secret", "reelboard", "reelboard-app"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "wrong audience",
			setupClaims: claims,
			ttl:         1 * time.Hour,
			provider:    NewProvider(secret, "reelboard", "someone-else"),
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "missing subject",
			setupClaims: &authdomain.Claims{},
			ttl:         1 * time.Hour,
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "malformed token",
			rawToken:    "not.a.jwt",
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.rawToken
			if tt.setupClaims != nil {
				var err error
				token, err = p.GenerateToken(tt.setupClaims, tt.ttl)
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
			}

			validateTarget := p
			if tt.provider != nil {
				validateTarget = tt.provider
			}

			validatedClaims, err := validateTarget.ValidateToken(token)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.verify != nil {
				tt.verify(t, validatedClaims)
			}
		})
	}
}
