package authhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
)

// AuthHandlers serves session introspection for authenticated clients.
type AuthHandlers struct {
	logger *slog.Logger
}

// NewAuthHandlers creates a new AuthHandlers.
func NewAuthHandlers(logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{logger: logger}
}

// SessionResponse describes the caller's validated identity.
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HandleSession returns the claims attached by RequireAuth.
func (h *AuthHandlers) HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := authdomain.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SessionResponse{
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt,
	}); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode session response", slog.String("error", err.Error()))
	}
}
