// Package slotindex builds the per-folder view of existing slot files
// that reconciliation and navigation diff against. Records are read
// fresh from the store on every call; the vault is the source of truth
// and may change between invocations.
package slotindex

import (
	"fmt"
	"path"

	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/storage"
)

// Record pairs an existing file with its extracted sort key.
type Record struct {
	Path    string `json:"path"`
	SortKey string `json:"sort_key"`
}

// List returns records for the immediate files of folder. A folder
// that does not exist yields an empty slice; no slots yet is not an error.
func List(store storage.Provider, folder string) ([]Record, error) {
	files, err := store.List(folder)
	if err != nil {
		return nil, fmt.Errorf("slotindex: list %s: %w", folder, err)
	}
	var out []Record
	for _, f := range files {
		if path.Dir(f.Path) != folder {
			continue
		}
		out = append(out, Record{Path: f.Path, SortKey: slot.SortKeyOf(f.Basename)})
	}
	return out, nil
}

// ListMonthly returns records for folder, keeping only files whose
// direct parent folder name equals folderName. Monthly folders for
// different years share a leaf name; matching on the parent keeps one
// year's notes from satisfying another's slots.
func ListMonthly(store storage.Provider, folder, folderName string) ([]Record, error) {
	files, err := store.List(folder)
	if err != nil {
		return nil, fmt.Errorf("slotindex: list %s: %w", folder, err)
	}
	var out []Record
	for _, f := range files {
		if path.Dir(f.Path) != folder || f.ParentFolder != folderName {
			continue
		}
		out = append(out, Record{Path: f.Path, SortKey: slot.SortKeyOf(f.Basename)})
	}
	return out, nil
}

// Find returns the first record whose sort key equals key.
func Find(records []Record, key string) (Record, bool) {
	for _, r := range records {
		if r.SortKey == key {
			return r, true
		}
	}
	return Record{}, false
}
