package navigate

import (
	"strings"
	"testing"
	"time"

	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/slot"
	"github.com/starford/jera/internal/storage"
)

func testSettings() settings.Settings {
	st := settings.NewDefaultSettings()
	st.RootFolder = "Journal"
	return st
}

func testResolver(t *testing.T, st settings.Settings) (*Resolver, storage.Provider, *[]string) {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	var notices []string
	r := New(store, st, notify.Func(func(m string) { notices = append(notices, m) }), nil)
	return r, store, &notices
}

var march15 = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func TestResolveTodayFindsExisting(t *testing.T) {
	r, store, _ := testResolver(t, testSettings())
	_ = store.Create("Journal/2024/03/15 - busy day.md", []byte(""))

	path, err := r.Resolve(slot.Daily, Today, "", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/03/15 - busy day.md" {
		t.Errorf("path = %q", path)
	}
}

func TestResolveNextDayFromAnchor(t *testing.T) {
	r, store, _ := testResolver(t, testSettings())
	_ = store.Create("Journal/2024/03/11 -.md", []byte(""))

	path, err := r.Resolve(slot.Daily, Next, "Journal/2024/03/10 - errands.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/03/11 -.md" {
		t.Errorf("path = %q", path)
	}
}

func TestResolvePreviousDayAcrossMonth(t *testing.T) {
	r, store, _ := testResolver(t, testSettings())
	_ = store.Create("Journal/2024/02/29 -.md", []byte(""))

	path, err := r.Resolve(slot.Daily, Previous, "Journal/2024/03/01 -.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/02/29 -.md" {
		t.Errorf("path = %q", path)
	}
}

func TestResolveBadAnchorFallsBackToToday(t *testing.T) {
	r, store, _ := testResolver(t, testSettings())
	_ = store.Create("Journal/2024/03/16 -.md", []byte(""))

	// Garbage anchor parses as nothing; "next" applies to today.
	path, err := r.Resolve(slot.Daily, Next, "somewhere/else/entirely.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/03/16 -.md" {
		t.Errorf("path = %q", path)
	}
}

func TestResolveMissingNoTemplateNotifiesAndWritesNothing(t *testing.T) {
	// Monthly next from a January anchor, no February note, no template.
	r, store, notices := testResolver(t, testSettings())
	_ = store.Create("Journal/2024/check-ins/01 -.md", []byte(""))

	path, err := r.Resolve(slot.Monthly, Next, "Journal/2024/check-ins/01 -.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if len(*notices) != 1 {
		t.Fatalf("notices = %v, want one not-found notice", *notices)
	}
	if store.Exists("Journal/2024/check-ins/02 -.md") {
		t.Error("resolver must not create without a template")
	}
}

func TestResolveNotFoundNoticeFiresUnderDefaultSettings(t *testing.T) {
	r, _, notices := testResolver(t, testSettings())

	path, err := r.Resolve(slot.Daily, Today, "", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if len(*notices) != 1 {
		t.Fatalf("notices = %v, want exactly one not-found notice", *notices)
	}
}

func TestResolveCreateFailureNoticeNamesTarget(t *testing.T) {
	st := testSettings()
	st.Daily.TemplateFile = "templates/daily"
	r, store, notices := testResolver(t, st)
	_ = store.Create("templates/daily.md", []byte("## Plan\n"))
	// A file squatting on the daily folder path makes the create fail.
	_ = store.Create("Journal/2024/03", []byte(""))

	_, err := r.Resolve(slot.Daily, Next, "Journal/2024/03/15 -.md", march15)
	if err == nil {
		t.Fatal("expected create failure")
	}
	if len(*notices) != 1 {
		t.Fatalf("notices = %v, want one failure notice", *notices)
	}
	if !strings.Contains((*notices)[0], "Journal/2024/03/16 -.md") {
		t.Errorf("notice = %q, want target path named", (*notices)[0])
	}
}

func TestResolveMissingWithTemplateCreates(t *testing.T) {
	st := testSettings()
	st.Daily.TemplateFile = "templates/daily"
	r, store, notices := testResolver(t, st)
	_ = store.Create("templates/daily.md", []byte("## Plan\n"))

	path, err := r.Resolve(slot.Daily, Next, "Journal/2024/03/15 -.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/03/16 -.md" {
		t.Errorf("path = %q", path)
	}
	data, _ := store.Read(path)
	if string(data) != "## Plan\n" {
		t.Errorf("contents = %q", data)
	}
	if len(*notices) != 1 {
		t.Errorf("notices = %v, want one created notice", *notices)
	}
}

func TestResolveMonthlyAnchorArithmetic(t *testing.T) {
	st := testSettings()
	r, store, _ := testResolver(t, st)
	_ = store.Create("Journal/2024/check-ins/01 -.md", []byte(""))

	path, err := r.Resolve(slot.Monthly, Previous, "Journal/2024/check-ins/02 - review.md", march15)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if path != "Journal/2024/check-ins/01 -.md" {
		t.Errorf("path = %q", path)
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("Next"); err != nil || d != Next {
		t.Errorf("got %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Error("expected error")
	}
}
