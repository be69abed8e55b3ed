package videohandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mount registers the video routes. requireAuth guards the mutating ones;
// optionalAuth identifies the caller on reads so liked_by_me can be filled.
func (h *VideoHandlers) Mount(r chi.Router, requireAuth, optionalAuth func(http.Handler) http.Handler) {
	r.Route("/api/videos", func(r chi.Router) {
		r.With(optionalAuth).Get("/", h.HandleListFeed)
		r.With(optionalAuth).Get("/{videoID}", h.HandleGetVideo)
		r.Post("/{videoID}/views", h.HandleRecordView)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", h.HandleRegisterVideo)
			r.Post("/{videoID}/like", h.HandleLike)
			r.Delete("/{videoID}/like", h.HandleUnlike)
		})
	})

	r.With(requireAuth).Put("/api/profile", h.HandleUpdateProfile)
}
