package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/buttons"
	"github.com/starford/jera/internal/journal"
	"github.com/starford/jera/internal/navigate"
	"github.com/starford/jera/internal/slot"
)

// Handler holds API route handlers.
type Handler struct {
	svc *journal.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *journal.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after /api/notes/).
// Supports encoded slashes from OpenAPI clients (e.g. Journal%2F2024%2F03%2F15 -.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Run handles POST /api/run.
//
//	@Summary		Trigger a reconciliation run
//	@Tags			runs
//	@Produce		json
//	@Success		200	{object}	RunResponse
//	@Security		BearerAuth
//	@Router			/run [post]
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	res := h.svc.Run(r.Context())

	resp := RunResponse{
		RunID:   res.RunID,
		Created: []string{},
		Failed:  res.Failed(),
	}
	for _, rep := range res.Reports {
		resp.Created = append(resp.Created, rep.Created...)
	}
	for _, err := range res.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// Resolve handles GET /api/resolve.
//
//	@Summary		Resolve a navigation request to a vault path
//	@Tags			navigate
//	@Produce		json
//	@Param			period		query		string	true	"Period type"	Enums(daily, monthly)
//	@Param			direction	query		string	true	"Direction"		Enums(previous, next, today)
//	@Param			anchor		query		string	false	"Anchor note path"
//	@Success		200			{object}	ResolveResponse
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	period, err := slot.ParsePeriod(q.Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	dir, err := navigate.ParseDirection(q.Get("direction"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := h.svc.Resolve(r.Context(), period, dir, q.Get("anchor"))
	if err != nil {
		slog.Error("resolve failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, "no note for that slot")
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{Path: path})
}

// ListRuns handles GET /api/runs.
//
//	@Summary		List recent reconciliation runs
//	@Tags			runs
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum entries"
//	@Success		200		{object}	RunListResponse
//	@Security		BearerAuth
//	@Router			/runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.svc.History(r.Context(), limit)
	if err != nil {
		slog.Error("list runs failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if runs == nil {
		runs = []RunListItem{}
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

// RunCreations handles GET /api/runs/{id}/creations.
//
//	@Summary		List the slots one run created
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	CreationListResponse
//	@Security		BearerAuth
//	@Router			/runs/{id}/creations [get]
func (h *Handler) RunCreations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	creations, err := h.svc.RunCreations(r.Context(), id)
	if err != nil {
		slog.Error("run creations failed", slog.String("run_id", id), slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if creations == nil {
		creations = []CreationListItem{}
	}
	writeJSON(w, http.StatusOK, CreationListResponse{Creations: creations})
}

// Buttons handles GET /api/buttons.
//
//	@Summary		List the configured navigation buttons
//	@Tags			navigate
//	@Produce		json
//	@Success		200	{object}	ButtonListResponse
//	@Security		BearerAuth
//	@Router			/buttons [get]
func (h *Handler) Buttons(w http.ResponseWriter, r *http.Request) {
	parsed := buttons.Parse(h.svc.Settings().Buttons)
	if parsed == nil {
		parsed = []buttons.Button{}
	}
	writeJSON(w, http.StatusOK, ButtonListResponse{Buttons: parsed})
}

// GetNote handles GET /api/notes/*.
//
//	@Summary		Read a vault note by path
//	@Tags			notes
//	@Produce		json
//	@Param			path	path		string	true	"Note path"
//	@Success		200		{object}	NoteResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{path} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	data, err := h.svc.ReadNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, NoteResponse{Path: path, Content: string(data)})
}
