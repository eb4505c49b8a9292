package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

func newTestCompleter(url string) *Completer {
	return NewCompleter(Config{
		APIKey:      "test-key",
		BaseURL:     url,
		Model:       "gpt-4",
		MaxTokens:   1000,
		Temperature: 0.7,
		TopP:        1.0,
	})
}

func TestComplete_RequestShape(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer srv.Close()

	c := newTestCompleter(srv.URL)
	got, err := c.Complete(context.Background(), "framing text", "knowledge text", "the question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("content = %q, want %q", got, "ok")
	}

	if gotBody["model"] != "gpt-4" {
		t.Errorf("model = %v", gotBody["model"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 3 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	for i, want := range []struct{ role, content string }{
		{"system", "framing text"},
		{"system", "knowledge text"},
		{"user", "the question"},
	} {
		msg := messages[i].(map[string]any)
		if msg["role"] != want.role || msg["content"] != want.content {
			t.Errorf("message[%d] = %v, want %+v", i, msg, want)
		}
	}
}

func TestComplete_OmitsEmptyFramingAndKnowledge(t *testing.T) {
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "1. q"}}]}`))
	}))
	defer srv.Close()

	c := newTestCompleter(srv.URL)
	if _, err := c.Complete(context.Background(), "", "", "decompose this"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("expected only the user message, got %d", len(messages))
	}
	msg := messages[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "decompose this" {
		t.Errorf("message = %v", msg)
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	c := newTestCompleter(srv.URL)
	_, err := c.Complete(context.Background(), "f", "k", "q")
	if !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestComplete_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	}))
	defer srv.Close()

	c := newTestCompleter(srv.URL)
	_, err := c.Complete(context.Background(), "f", "k", "q")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestComplete_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	c := newTestCompleter(srv.URL)
	_, err := c.Complete(context.Background(), "f", "k", "q")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
