package contentgenhandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
	contentgenservice "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/application"
	contentgendomain "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/domain"
	contentgenclient "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/infrastructure/generator"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 16 << 10

// ContentHandlers exposes content generation over HTTP.
type ContentHandlers struct {
	service contentgenservice.Service
	logger  *slog.Logger
}

func NewContentHandlers(service contentgenservice.Service, logger *slog.Logger) *ContentHandlers {
	return &ContentHandlers{service: service, logger: logger}
}

// Mount registers POST /api/content/generate behind the given middleware.
func (h *ContentHandlers) Mount(r chi.Router, middlewares ...func(http.Handler) http.Handler) {
	r.With(middlewares...).Post("/api/content/generate", h.HandleGenerate)
}

func (h *ContentHandlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req contentgendomain.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.write(w, r, http.StatusBadRequest, contentgendomain.Response{Error: "invalid request body"})
		return
	}

	res, err := h.service.Generate(r.Context(), authdomain.UserIDFromContext(r.Context()), req)
	if err != nil {
		if errors.Is(err, contentgenclient.ErrNotConfigured) {
			h.write(w, r, http.StatusServiceUnavailable, contentgendomain.Response{Error: err.Error()})
			return
		}
		h.logger.ErrorContext(r.Context(), "Content generation request failed", attr.Error(err))
		h.write(w, r, http.StatusBadGateway, contentgendomain.Response{Error: "content generation unavailable"})
		return
	}

	if res.IsFailure() {
		failure := *res.Failure
		status := http.StatusUnprocessableEntity
		if isValidation(failure) {
			status = http.StatusBadRequest
		}
		h.write(w, r, status, contentgendomain.Response{Error: failure.Error(), Type: req.Type})
		return
	}

	h.write(w, r, http.StatusOK, contentgendomain.Response{
		Success: true,
		Result:  res.Success.Result,
		Type:    res.Success.Type,
	})
}

func isValidation(err error) bool {
	return errors.Is(err, contentgendomain.ErrInvalidPrompt) ||
		errors.Is(err, contentgendomain.ErrPromptTooLong) ||
		errors.Is(err, contentgendomain.ErrInvalidContentType)
}

func (h *ContentHandlers) write(w http.ResponseWriter, r *http.Request, status int, body contentgendomain.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response", attr.Error(err))
	}
}
