package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSlotCreated("daily", "Journal/2024/03/15 -.md")

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: slot.created") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"Journal/2024/03/15 -.md"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishNoticeAndRunCompleted(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishNotice("created daily note")
	b.PublishRunCompleted("run-1", 3, 1)

	var got []string
	for len(got) < 2 {
		select {
		case msg := <-ch:
			got = append(got, string(msg))
		case <-time.After(time.Second):
			t.Fatalf("timeout; got %v", got)
		}
	}
	if !strings.Contains(got[0], "event: notice") {
		t.Errorf("first = %q", got[0])
	}
	if !strings.Contains(got[1], `"run_id":"run-1"`) {
		t.Errorf("second = %q", got[1])
	}
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	b := NewBroker()
	b.Close()
	// Must not panic or block.
	b.PublishNotice("late")
	if b.ClientCount() != 0 {
		t.Error("expected 0 clients after close")
	}
}

func TestServeHTTPStreams(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Wait for the subscription before publishing.
	deadline := time.Now().Add(time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	b.PublishNotice("hello")
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: notice") {
		t.Errorf("body = %q", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
}
