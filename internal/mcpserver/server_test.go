package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/jera/internal/journal"
	"github.com/starford/jera/internal/notify"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/storage"
)

var march15 = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func testServer(t *testing.T, tweak func(*settings.Settings)) (*Server, storage.Provider) {
	t.Helper()

	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	st := settings.NewDefaultSettings()
	if tweak != nil {
		tweak(&st)
	}

	svc := journal.NewService(store, st, notify.Discard, nil,
		journal.WithNowFunc(func() time.Time { return march15 }))
	return New(svc), store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "run_journal":
		result, err = srv.runJournal(ctx, req)
	case "resolve_link":
		result, err = srv.resolveLink(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "journal_history":
		result, err = srv.journalHistory(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestRunJournalTool(t *testing.T) {
	srv, store := testServer(t, func(st *settings.Settings) {
		st.Daily.Enabled = true
	})

	r := callTool(t, srv, "run_journal", nil)
	if r.IsError {
		t.Fatalf("run_journal error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Journal/2024/03/15 -.md") {
		t.Fatalf("summary missing today's slot: %s", resultText(r))
	}
	if !store.Exists("Journal/2024/03/15 -.md") {
		t.Error("today's slot missing from vault")
	}
}

func TestResolveLinkTool(t *testing.T) {
	srv, store := testServer(t, nil)
	_ = store.Create("Journal/2024/03/15 - friday.md", []byte("body"))

	r := callTool(t, srv, "resolve_link", map[string]interface{}{
		"period":    "daily",
		"direction": "today",
	})
	if r.IsError {
		t.Fatalf("resolve_link error: %s", resultText(r))
	}
	if got := resultText(r); got != "Journal/2024/03/15 - friday.md" {
		t.Fatalf("resolve_link = %q", got)
	}
}

func TestResolveLinkToolNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)

	r := callTool(t, srv, "resolve_link", map[string]interface{}{
		"period":    "daily",
		"direction": "next",
	})
	if r.IsError {
		t.Fatalf("resolve_link error: %s", resultText(r))
	}
	if got := resultText(r); got != "no note for that slot" {
		t.Fatalf("resolve_link = %q", got)
	}
}

func TestResolveLinkToolBadPeriod(t *testing.T) {
	srv, _ := testServer(t, nil)

	r := callTool(t, srv, "resolve_link", map[string]interface{}{
		"period":    "weekly",
		"direction": "today",
	})
	if !r.IsError {
		t.Fatal("expected error result for unknown period")
	}
}

func TestReadNoteTool(t *testing.T) {
	srv, store := testServer(t, nil)
	_ = store.Create("Journal/2024/03/15 - friday.md", []byte("# Friday"))

	r := callTool(t, srv, "read_note", map[string]interface{}{
		"path": "Journal/2024/03/15 - friday.md",
	})
	if r.IsError {
		t.Fatalf("read_note error: %s", resultText(r))
	}
	if got := resultText(r); got != "# Friday" {
		t.Fatalf("read_note = %q", got)
	}

	r = callTool(t, srv, "read_note", map[string]interface{}{
		"path": "Journal/missing.md",
	})
	if !r.IsError {
		t.Fatal("expected error for missing note")
	}
}

func TestJournalHistoryToolWithoutLedger(t *testing.T) {
	srv, _ := testServer(t, nil)

	r := callTool(t, srv, "journal_history", nil)
	if r.IsError {
		t.Fatalf("journal_history error: %s", resultText(r))
	}
	if got := resultText(r); got != "no runs recorded" {
		t.Fatalf("journal_history = %q", got)
	}
}

func TestLayoutContractReflectsSettings(t *testing.T) {
	st := settings.NewDefaultSettings()
	st.RootFolder = "Diary"
	st.Monthly.FolderName = "reviews"

	text := LayoutContract(st)
	if !strings.Contains(text, "Diary") || !strings.Contains(text, "reviews") {
		t.Fatalf("contract missing settings values:\n%s", text)
	}
}
