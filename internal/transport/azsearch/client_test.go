package azsearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/topiclens/internal/domain"
)

func TestRetrieve_RequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIKey: "k-123", APIVersion: "2024-05-01-preview"})
	_, err := c.Retrieve(context.Background(), "inventory-idx", "sem-001", "App_owner,Topic_name", "who owns x?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/indexes('inventory-idx')/docs/search?api-version=2024-05-01-preview" {
		t.Errorf("unexpected path: %q", gotPath)
	}
	if gotKey != "k-123" {
		t.Errorf("api-key header = %q", gotKey)
	}
	for key, want := range map[string]string{
		"search":                "who owns x?",
		"queryType":             "semantic",
		"semanticConfiguration": "sem-001",
		"captions":              "extractive",
		"answers":               "extractive|count-5",
		"queryLanguage":         "en-US",
		"select":                "App_owner,Topic_name",
	} {
		if gotBody[key] != want {
			t.Errorf("body[%s] = %v, want %q", key, gotBody[key], want)
		}
	}
}

func TestRetrieve_DecodesAnswersAndDocuments(t *testing.T) {
	payload := `{
		"@search.answers": [{"text": "an answer", "score": 0.55}],
		"value": [
			{
				"@search.score": 1.5,
				"@search.rerankerScore": 2.5,
				"@search.captions": [{"text": "cap", "highlights": "hl"}],
				"App_owner": "billing",
				"Consumer_app": "ledger",
				"count": 3
			},
			{"Topic_name": "no-score-doc"}
		]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIVersion: "v"})
	res, err := c.Retrieve(context.Background(), "idx", "sem", "", "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Answers) != 1 || res.Answers[0].Text != "an answer" || res.Answers[0].Score != 0.55 {
		t.Errorf("answers = %+v", res.Answers)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(res.Documents))
	}

	d := res.Documents[0]
	if d.Score != 1.5 || d.RerankScore != 2.5 {
		t.Errorf("scores = %v / %v", d.Score, d.RerankScore)
	}
	if len(d.Captions) != 1 || d.Captions[0].Text != "cap" || d.Captions[0].Highlights != "hl" {
		t.Errorf("captions = %+v", d.Captions)
	}
	if d.Field("App_owner") != "billing" || d.Field("Consumer_app") != "ledger" {
		t.Errorf("fields = %+v", d.Fields)
	}
	if _, ok := d.Fields["count"]; ok {
		t.Error("non-string field should be dropped")
	}

	// Missing score defaults to 0.0, never an error.
	if res.Documents[1].Score != 0 {
		t.Errorf("missing score = %v, want 0", res.Documents[1].Score)
	}
	if res.Documents[1].Field("Topic_name") != "no-score-doc" {
		t.Errorf("fields = %+v", res.Documents[1].Fields)
	}
}

func TestRetrieve_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "index not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIVersion: "v"})
	_, err := c.Retrieve(context.Background(), "idx", "sem", "", "q")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestRetrieve_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, APIVersion: "v"})
	_, err := c.Retrieve(context.Background(), "idx", "sem", "", "q")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestRetrieve_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	c := NewClient(Config{Endpoint: srv.URL, APIVersion: "v"})
	_, err := c.Retrieve(context.Background(), "idx", "sem", "", "q")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
