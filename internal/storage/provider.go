// Package storage defines the vault file-system abstraction.
package storage

import "github.com/starford/jera/internal/models"

// Provider is the interface for vault file operations.
type Provider interface {
	// List returns metadata for every .md file under dir (relative to
	// vault root). A missing dir yields an empty slice, not an error.
	List(dir string) ([]models.FileInfo, error)
	// Exists reports whether a file or folder exists at path.
	Exists(path string) bool
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Create writes content to a new file at path. It fails with
	// apperr.ErrAlreadyExists when the path is already occupied;
	// existing files are never overwritten.
	Create(path string, content []byte) error
	// CreateFolder creates a single folder at path. Creating a folder
	// that already exists is an error; callers check Exists first.
	CreateFolder(path string) error
}
