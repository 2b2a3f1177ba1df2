// Package materialize turns creation requests into vault files:
// cascading folder creation, template date substitution, and the
// never-overwrite guarantee live here.
package materialize

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/starford/jera/internal/datefmt"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/slotindex"
	"github.com/starford/jera/internal/storage"
)

// Request describes one slot file to create.
type Request struct {
	// TargetPath is the vault-relative file path; the .md suffix is
	// appended when missing.
	TargetPath string
	// Nominal is the slot's calendar date. It determines identity
	// (path, sort key) and never shifts.
	Nominal time.Time
	// Effective is the timestamp substituted into the template date
	// token. It usually equals Nominal but may be nudged one minute
	// into the future for today's note so reminder integrations keyed
	// on future timestamps still fire.
	Effective time.Time
	// Template is the raw template body; empty means an empty file.
	Template string
}

// Materializer creates slot files through a storage provider.
type Materializer struct {
	store storage.Provider
	st    settings.Settings
}

// New creates a Materializer.
func New(store storage.Provider, st settings.Settings) *Materializer {
	return &Materializer{store: store, st: st}
}

// Materialize creates the requested file unless a record with the same
// sort key already exists, in which case the existing path is returned
// and nothing is written. The returned bool reports whether a file was
// created.
func (m *Materializer) Materialize(req Request, existing []slotindex.Record) (string, bool, error) {
	target := req.TargetPath
	if !strings.HasSuffix(target, ".md") {
		target += ".md"
	}

	key := slot.SortKeyOf(strings.TrimSuffix(path.Base(target), ".md"))
	if rec, ok := slotindex.Find(existing, key); ok {
		return rec.Path, false, nil
	}

	if err := m.ensureFolders(path.Dir(target)); err != nil {
		return "", false, err
	}

	contents := req.Template
	if m.st.TemplateDate.Enabled && strings.Contains(contents, m.st.TemplateDate.Token) {
		rendered := datefmt.Format(req.Effective, m.st.TemplateDate.Format)
		contents = strings.Replace(contents, m.st.TemplateDate.Token, rendered, 1)
	}

	if err := m.store.Create(target, []byte(contents)); err != nil {
		return "", false, fmt.Errorf("materialize %s: %w", target, err)
	}
	return target, true, nil
}

// LoadTemplate reads a period policy's template body from the store.
// An empty template path yields an empty body; a configured but
// unreadable template is a configuration error for the caller to report.
func LoadTemplate(store storage.Provider, policy settings.PeriodPolicy) (string, error) {
	if policy.TemplateFile == "" {
		return "", nil
	}
	p := policy.TemplateFile
	if !strings.HasSuffix(p, ".md") {
		p += ".md"
	}
	data, err := store.Read(p)
	if err != nil {
		return "", fmt.Errorf("template file %s: %w", p, err)
	}
	return string(data), nil
}

// ensureFolders creates folder one path segment at a time, checking
// existence before each step so a partially created tree from an
// earlier run is tolerated.
func (m *Materializer) ensureFolders(folder string) error {
	if folder == "." || folder == "" || m.store.Exists(folder) {
		return nil
	}
	prev := ""
	for _, segment := range strings.Split(folder, "/") {
		cascade := path.Join(prev, segment)
		if !m.store.Exists(cascade) {
			if err := m.store.CreateFolder(cascade); err != nil {
				return fmt.Errorf("materialize: folder %s: %w", cascade, err)
			}
		}
		prev = cascade
	}
	return nil
}
