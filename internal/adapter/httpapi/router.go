package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/staco-app/directory-service/internal/adapter/httpapi/middleware"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

// NewRouter wires the public and authenticated route groups. Filter
// queries and single-listing reads need no session; every mutation
// does.
func NewRouter(h *Handler, jwtSecret string, log *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.Recoverer)

	// Public routes.
	mux.Post("/api/users", h.Register)
	mux.Post("/api/users/verify", h.VerifyEmail)
	mux.Post("/api/users/verify/resend", h.ResendVerification)
	mux.Post("/api/sessions", h.Login)
	mux.Get("/api/listings", h.ListListings)
	mux.Get("/api/listings/{id}", h.GetListing)

	// Authenticated routes.
	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))

		r.Get("/api/users/me", h.GetMe)
		r.Patch("/api/users/me", h.UpdateMe)
		r.Get("/api/users/me/interests", h.MyInterests)

		r.Post("/api/listings", h.CreateListing)
		r.Put("/api/listings/{id}", h.UpdateListing)
		r.Delete("/api/listings/{id}", h.DeleteListing)
		r.Post("/api/listings/{id}/photos", h.UploadPhoto)

		r.Post("/api/listings/{id}/interest", h.MarkInterest)
		r.Delete("/api/listings/{id}/interest", h.RemoveInterest)
	})

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
