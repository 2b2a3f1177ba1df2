package api

import (
	"github.com/starford/jera/internal/buttons"
	"github.com/starford/jera/internal/runlog"
)

// RunResponse summarises one reconciliation run.
type RunResponse struct {
	RunID   string   `json:"run_id" example:"7f6c1c9e-..." validate:"required"`
	Created []string `json:"created" validate:"required"`
	Failed  int      `json:"failed" example:"0" validate:"required"`
	Errors  []string `json:"errors,omitempty"`
}

// ResolveResponse carries the vault path a navigation request landed on.
type ResolveResponse struct {
	Path string `json:"path" example:"Journal/2024/03/15 -.md" validate:"required"`
}

// RunListItem is one ledger entry in a history response (aliased from
// the domain layer).
type RunListItem = runlog.Run

// RunListResponse wraps the run history.
type RunListResponse struct {
	Runs []RunListItem `json:"runs" validate:"required"`
}

// CreationListItem is one created slot in a run detail response
// (aliased from the domain layer).
type CreationListItem = runlog.Creation

// CreationListResponse wraps the slots one run created.
type CreationListResponse struct {
	Creations []CreationListItem `json:"creations" validate:"required"`
}

// ButtonListResponse wraps the parsed navigation buttons.
type ButtonListResponse struct {
	Buttons []buttons.Button `json:"buttons" validate:"required"`
}

// NoteResponse carries raw note content.
type NoteResponse struct {
	Path    string `json:"path" validate:"required"`
	Content string `json:"content" validate:"required"`
}
