package leaderboardhandlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
	leaderboardservice "github.com/Black-And-White-Club/reelboard/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HTTPHandlers serves the leaderboard read model.
type HTTPHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates a new HTTPHandlers.
func NewHTTPHandlers(service leaderboardservice.Service, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, logger: logger}
}

// Mount registers /api/leaderboard routes. requireAuth guards recompute.
func (h *HTTPHandlers) Mount(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/leaderboard", func(r chi.Router) {
		r.Get("/", h.HandleGetLeaderboard)
		r.Get("/chart.png", h.HandleChart)
		r.Get("/export.xlsx", h.HandleExport)
		r.With(requireAuth).Post("/recompute", h.HandleRequestRecompute)
	})
}

func (h *HTTPHandlers) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetLeaderboard(r.Context(), limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode leaderboard", attr.Error(err))
	}
}

func (h *HTTPHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	png, err := h.service.RenderChart(r.Context(), limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=60")
	_, _ = w.Write(png)
}

func (h *HTTPHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.ExportWorkbook(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	_, _ = w.Write(data)
}

type recomputeRequest struct {
	Reason string `json:"reason"`
}

func (h *HTTPHandlers) HandleRequestRecompute(w http.ResponseWriter, r *http.Request) {
	var req recomputeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}
	if req.Reason == "" {
		req.Reason = "manual"
	}

	if err := h.service.RequestRecompute(r.Context(), authdomain.UserIDFromContext(r.Context()), req.Reason); err != nil {
		h.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *HTTPHandlers) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func (h *HTTPHandlers) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Leaderboard request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
