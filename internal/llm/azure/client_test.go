package azure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coverageworks/cert-intake/internal/common"
)

func chatReply(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return b
}

func TestRecognizeTextSendsAPIKeyHeader(t *testing.T) {
	var gotKey atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(chatReply("THE RECOGNIZED TEXT"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "secret", Timeout: 5 * time.Second}, nil)
	text, err := c.RecognizeText(context.Background(), "data:image/png;base64,AAAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "THE RECOGNIZED TEXT" {
		t.Fatalf("unexpected reply text: %q", text)
	}
	if gotKey.Load() != "secret" {
		t.Fatalf("api-key header not sent: %v", gotKey.Load())
	}
}

func TestCallsFailFastWhenNotConfigured(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	// Endpoint present but no key: still unconfigured.
	t.Setenv("AZURE_OPENAI_ENDPOINT", "")
	t.Setenv("AZURE_OPENAI_API_KEY", "")
	c := NewClient(Config{Endpoint: srv.URL}, nil)

	if _, err := c.RecognizeText(context.Background(), "data:..."); !errors.Is(err, common.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, _, err := c.StructureText(context.Background(), "some text"); !errors.Is(err, common.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("no network attempt may happen while unconfigured, saw %d calls", calls)
	}
}

func TestChatNon2xxIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "k"}, nil)
	_, err := c.RecognizeText(context.Background(), "data:...")
	if !errors.Is(err, common.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestChatBadEnvelopeIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "k"}, nil)
	_, err := c.RecognizeText(context.Background(), "data:...")
	if !errors.Is(err, common.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestStructureTextRecoversDocument(t *testing.T) {
	content := "Reasoning first.\n<initial_attempt>```json\n" +
		`{"automobileLiability": {"insuranceCompany": "Northbridge", "amount": 2000000}}` +
		"\n```</initial_attempt>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatReply(content))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "k"}, nil)
	doc, raw, err := c.StructureText(context.Background(), "recognized text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("raw reply content must be returned")
	}
	auto, ok := doc["automobileLiability"].(map[string]any)
	if !ok || auto["insuranceCompany"] != "Northbridge" {
		t.Fatalf("document not recovered: %v", doc)
	}
}

func TestStructureTextRefusalIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(chatReply("Sorry, I cannot help with that."))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "k"}, nil)
	_, raw, err := c.StructureText(context.Background(), "recognized text")
	if !errors.Is(err, common.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("the offending reply must be returned for diagnosis")
	}
}
