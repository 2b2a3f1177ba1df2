package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/journal"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *journal.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Reconciliation.
	r.Post("/run", h.Run)
	r.Get("/runs", h.ListRuns)
	r.Get("/runs/{id}/creations", h.RunCreations)

	// Navigation.
	r.Get("/resolve", h.Resolve)
	r.Get("/buttons", h.Buttons)

	// Notes.
	r.Get("/notes/*", h.GetNote)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
