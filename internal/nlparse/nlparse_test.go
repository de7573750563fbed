package nlparse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FranksOps/canvass/internal/provider"
)

func fakeCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(reply)
	}
}

func TestExtract_PlainJSONReply(t *testing.T) {
	srv := httptest.NewServer(fakeCompletion(`{"domain": "google.com", "job_title": "engineer"}`))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	domain, title, err := c.Extract(context.Background(), "Find engineers at google.com")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if domain != "google.com" || title != "engineer" {
		t.Errorf("got (%q, %q)", domain, title)
	}
}

func TestExtract_JSONEmbeddedInProse(t *testing.T) {
	srv := httptest.NewServer(fakeCompletion("Sure! Here is the extraction:\n{\"domain\": \"stripe.com\",\n \"job_title\": \"CEO\"}\nHope that helps."))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	domain, title, err := c.Extract(context.Background(), "Find CEO at stripe.com")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if domain != "stripe.com" || title != "CEO" {
		t.Errorf("got (%q, %q)", domain, title)
	}
}

func TestExtract_NullJobTitle(t *testing.T) {
	srv := httptest.NewServer(fakeCompletion(`{"domain": "netflix.com", "job_title": null}`))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	domain, title, err := c.Extract(context.Background(), "Show people at netflix.com")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if domain != "netflix.com" || title != "" {
		t.Errorf("got (%q, %q)", domain, title)
	}
}

func TestExtract_MalformedReply(t *testing.T) {
	srv := httptest.NewServer(fakeCompletion("I could not process that request."))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	if _, _, err := c.Extract(context.Background(), "gibberish"); err == nil {
		t.Fatal("expected extraction error for prose-only reply")
	}
}

func TestExtract_MissingDomain(t *testing.T) {
	srv := httptest.NewServer(fakeCompletion(`{"domain": null, "job_title": "engineer"}`))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	if _, _, err := c.Extract(context.Background(), "find engineers somewhere"); err == nil {
		t.Fatal("expected error when no domain extracted")
	}
}

func TestExtract_MissingKey(t *testing.T) {
	c := New(Config{})
	_, _, err := c.Extract(context.Background(), "anything")
	if !errors.Is(err, provider.ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestExtract_RequestShape(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		fakeCompletion(`{"domain": "a.com", "job_title": null}`)(w, r)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "tok", BaseURL: srv.URL})
	if _, _, err := c.Extract(context.Background(), "people at a.com"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if captured["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", captured["model"])
	}
	if captured["temperature"] != float64(0) {
		t.Errorf("temperature = %v, want 0", captured["temperature"])
	}
	if captured["max_tokens"] != float64(100) {
		t.Errorf("max_tokens = %v, want 100", captured["max_tokens"])
	}
	msgs, ok := captured["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v", captured["messages"])
	}
	content := fmt.Sprint(msgs[0].(map[string]any)["content"])
	if content == "" {
		t.Error("expected a prompt in the message content")
	}
}
