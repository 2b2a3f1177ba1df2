// Package models defines the domain types for Jera.
package models

import "time"

// FileInfo is the lightweight representation of a vault file returned by
// list operations. Path is relative to the vault root and always uses
// forward slashes. Basename is the file name without its extension.
type FileInfo struct {
	Path         string    `json:"path"`
	Basename     string    `json:"basename"`
	ParentFolder string    `json:"parent_folder"`
	UpdatedAt    time.Time `json:"updated_at"`
}
