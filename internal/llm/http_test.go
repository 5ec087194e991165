package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPostChatHeadersAndBody(t *testing.T) {
	var (
		gotKey  string
		gotCT   string
		gotBody string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotCT = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	raw, status, err := PostChat(context.Background(), srv.Client(), srv.URL, "secret",
		map[string]any{"messages": []string{}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK || string(raw) != `{"ok":true}` {
		t.Fatalf("unexpected reply: status=%d body=%q", status, raw)
	}
	if gotKey != "secret" {
		t.Fatalf("api-key header not set: %q", gotKey)
	}
	if gotCT != "application/json" {
		t.Fatalf("content type not set: %q", gotCT)
	}
	if !strings.Contains(gotBody, "messages") {
		t.Fatalf("body not posted as JSON: %q", gotBody)
	}
}

func TestPostChatNon2xxReturnsRawBody(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":"throttled"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	raw, status, err := PostChat(context.Background(), srv.Client(), srv.URL, "k", map[string]any{}, nil)
	if err == nil {
		t.Fatal("expected an error for a non-2xx status")
	}
	if status != http.StatusTooManyRequests {
		t.Fatalf("status must be surfaced: %d", status)
	}
	if !strings.Contains(string(raw), "throttled") {
		t.Fatalf("raw body must be returned for classification: %q", raw)
	}
	if calls != 1 {
		t.Fatalf("exactly one attempt is allowed, saw %d", calls)
	}
}

func TestPostChatTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, status, err := PostChat(context.Background(), nil, srv.URL, "k", map[string]any{}, nil)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if status != 0 {
		t.Fatalf("no status on transport failure, got %d", status)
	}
}
