package materialize

import (
	"testing"
	"time"

	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slotindex"
	"github.com/starford/jera/internal/storage"
)

func newTestMaterializer(t *testing.T) (*Materializer, storage.Provider) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return New(store, settings.NewDefaultSettings()), store
}

var nominal = time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

func TestMaterializeCreatesFileAndFolders(t *testing.T) {
	m, store := newTestMaterializer(t)
	path, created, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  nominal,
	}, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if path != "Journal/2024/03/15 -.md" {
		t.Errorf("path = %q", path)
	}
	if !store.Exists(path) {
		t.Error("file missing on disk")
	}
}

func TestMaterializeToleratesPartialFolders(t *testing.T) {
	m, store := newTestMaterializer(t)
	_ = store.CreateFolder("Journal")
	_ = store.CreateFolder("Journal/2024")

	_, created, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  nominal,
	}, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if !created {
		t.Error("expected creation")
	}
}

func TestMaterializeSkipsExistingSortKey(t *testing.T) {
	m, store := newTestMaterializer(t)
	_ = store.Create("Journal/2024/03/15 - already here.md", []byte("keep"))

	existing := []slotindex.Record{{Path: "Journal/2024/03/15 - already here.md", SortKey: "15"}}
	path, created, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  nominal,
		Template:   "new contents",
	}, existing)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if created {
		t.Error("must not create over an existing sort key")
	}
	if path != "Journal/2024/03/15 - already here.md" {
		t.Errorf("path = %q", path)
	}
	data, _ := store.Read("Journal/2024/03/15 - already here.md")
	if string(data) != "keep" {
		t.Errorf("existing file was touched: %q", data)
	}
}

func TestTemplateDateSubstitution(t *testing.T) {
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	st := settings.NewDefaultSettings()
	st.TemplateDate.Enabled = true
	m := New(store, st)

	path, _, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  nominal,
		Template:   "# Entry for {{date}}\n\n{{date}} stays\n",
	}, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	data, _ := store.Read(path)
	want := "# Entry for 2024-03-15\n\n{{date}} stays\n"
	if string(data) != want {
		t.Errorf("contents = %q, want first occurrence replaced only", data)
	}
}

func TestTemplateDateDisabledLeavesToken(t *testing.T) {
	m, store := newTestMaterializer(t)
	path, _, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  nominal,
		Template:   "{{date}}",
	}, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	data, _ := store.Read(path)
	if string(data) != "{{date}}" {
		t.Errorf("contents = %q", data)
	}
}

func TestEffectiveDateDrivesSubstitution(t *testing.T) {
	store, _ := storage.NewFS(t.TempDir())
	st := settings.NewDefaultSettings()
	st.TemplateDate.Enabled = true
	st.TemplateDate.Format = "YYYY-MM-DD HH:mm"
	m := New(store, st)

	effective := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)
	path, _, err := m.Materialize(Request{
		TargetPath: "Journal/2024/03/15 -",
		Nominal:    nominal,
		Effective:  effective,
		Template:   "{{date}}",
	}, nil)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	data, _ := store.Read(path)
	if string(data) != "2024-03-15 09:30" {
		t.Errorf("contents = %q", data)
	}
}
