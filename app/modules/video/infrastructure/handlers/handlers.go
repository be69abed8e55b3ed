package videohandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	authdomain "github.com/Black-And-White-Club/reelboard/app/modules/auth/domain"
	videoservice "github.com/Black-And-White-Club/reelboard/app/modules/video/application"
	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	"github.com/Black-And-White-Club/reelboard/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds JSON request bodies. Uploads carry metadata only.
const maxBodyBytes = 64 << 10

// VideoHandlers exposes the video service over HTTP.
type VideoHandlers struct {
	service videoservice.Service
	logger  *slog.Logger
}

// NewVideoHandlers creates a new VideoHandlers.
func NewVideoHandlers(service videoservice.Service, logger *slog.Logger) *VideoHandlers {
	return &VideoHandlers{service: service, logger: logger}
}

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error"`
}

func (h *VideoHandlers) HandleListFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	feed, err := h.service.ListFeed(r.Context(), limit)
	if err != nil {
		h.writeServerError(w, r, err)
		return
	}
	if actor := actorFromRequest(r); actor.UserID != "" {
		for i := range feed {
			feed[i].LikedByMe = feed[i].IsLikedBy(actor.UserID)
		}
	}
	h.writeJSON(w, r, http.StatusOK, feed)
}

func (h *VideoHandlers) HandleGetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.service.GetVideo(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		if errors.Is(err, videoservice.ErrVideoNotFound) {
			h.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.writeServerError(w, r, err)
		return
	}
	if actor := actorFromRequest(r); actor.UserID != "" {
		video.LikedByMe = video.IsLikedBy(actor.UserID)
	}
	h.writeJSON(w, r, http.StatusOK, video)
}

func (h *VideoHandlers) HandleRegisterVideo(w http.ResponseWriter, r *http.Request) {
	var upload videodomain.Upload
	if !h.decode(w, r, &upload) {
		return
	}

	res, err := h.service.RegisterVideo(r.Context(), actorFromRequest(r), upload)
	if err != nil {
		h.writeServerError(w, r, err)
		return
	}
	if res.IsFailure() {
		h.writeFailure(w, r, *res.Failure)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, res.Success)
}

func (h *VideoHandlers) HandleLike(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.LikeVideo(r.Context(), actorFromRequest(r), chi.URLParam(r, "videoID"))
	h.writeVideoResult(w, r, res, err)
}

func (h *VideoHandlers) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.UnlikeVideo(r.Context(), actorFromRequest(r), chi.URLParam(r, "videoID"))
	h.writeVideoResult(w, r, res, err)
}

func (h *VideoHandlers) HandleRecordView(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RecordView(r.Context(), chi.URLParam(r, "videoID"))
	if err != nil {
		h.writeServerError(w, r, err)
		return
	}
	if res.IsFailure() {
		h.writeFailure(w, r, *res.Failure)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res.Success)
}

func (h *VideoHandlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile videodomain.Profile
	if !h.decode(w, r, &profile) {
		return
	}

	res, err := h.service.UpdateProfile(r.Context(), actorFromRequest(r), profile)
	if err != nil {
		h.writeServerError(w, r, err)
		return
	}
	if res.IsFailure() {
		h.writeFailure(w, r, *res.Failure)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res.Success)
}

func (h *VideoHandlers) writeVideoResult(w http.ResponseWriter, r *http.Request, res videoservice.VideoResult, err error) {
	if err != nil {
		h.writeServerError(w, r, err)
		return
	}
	if res.IsFailure() {
		h.writeFailure(w, r, *res.Failure)
		return
	}
	h.writeJSON(w, r, http.StatusOK, res.Success)
}

func actorFromRequest(r *http.Request) videodomain.Actor {
	claims, ok := authdomain.ClaimsFromContext(r.Context())
	if !ok {
		return videodomain.Actor{}
	}
	return videodomain.Actor{UserID: claims.UserID, Username: claims.Username}
}

func (h *VideoHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// failureStatus maps a business failure to its HTTP status.
func failureStatus(err error) int {
	var verr *videodomain.ValidationError
	switch {
	case errors.Is(err, videoservice.ErrVideoNotFound):
		return http.StatusNotFound
	case errors.Is(err, videoservice.ErrMissingActor):
		return http.StatusUnauthorized
	case errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func (h *VideoHandlers) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	h.writeError(w, r, failureStatus(err), err.Error())
}

func (h *VideoHandlers) writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Video request failed",
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	h.writeError(w, r, http.StatusInternalServerError, "internal server error")
}

func (h *VideoHandlers) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, errorResponse{Error: msg})
}

func (h *VideoHandlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to encode response", attr.Error(err))
	}
}
