package jsonbackend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/FranksOps/canvass/internal/storage"
)

func TestJSONBackend(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "leads.ndjson")

	b, err := New(filePath)
	if err != nil {
		t.Fatalf("Failed to create NDJSON backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	leads := []storage.Lead{
		{ID: "j1", Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme", Source: "apollo", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "j2", Name: "John Roe", Company: "Acme", Source: "hunter", CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "j3", Name: "Kim Lee", Email: "kim@globex.com", Company: "Globex", Source: "hunter", CreatedAt: now},
	}
	if err := storage.SaveAll(ctx, b, leads); err != nil {
		t.Fatalf("Failed to save leads: %v", err)
	}

	results, err := b.Query(ctx, storage.Filter{})
	if err != nil {
		t.Fatalf("Failed to query leads: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].ID != "j3" || results[2].ID != "j1" {
		t.Errorf("Expected newest-first ordering, got %s ... %s", results[0].ID, results[2].ID)
	}
	if results[2].Email != "jane@acme.com" || results[2].Name != "Jane Doe" {
		t.Errorf("Lead fields not preserved: %+v", results[2])
	}

	// Company filter
	acme, err := b.Query(ctx, storage.Filter{Company: "Acme"})
	if err != nil {
		t.Fatalf("Failed to query leads by company: %v", err)
	}
	if len(acme) != 2 {
		t.Errorf("Expected 2 Acme leads, got %d", len(acme))
	}

	// Source filter
	hunter, err := b.Query(ctx, storage.Filter{Source: "hunter"})
	if err != nil {
		t.Fatalf("Failed to query leads by source: %v", err)
	}
	if len(hunter) != 2 {
		t.Errorf("Expected 2 hunter leads, got %d", len(hunter))
	}

	// HasEmail filter
	hasEmail := true
	withEmail, err := b.Query(ctx, storage.Filter{HasEmail: &hasEmail})
	if err != nil {
		t.Fatalf("Failed to query leads by email presence: %v", err)
	}
	if len(withEmail) != 2 {
		t.Errorf("Expected 2 leads with email, got %d", len(withEmail))
	}

	// Since filter
	since := now.Add(-90 * time.Minute)
	recent, err := b.Query(ctx, storage.Filter{Since: &since})
	if err != nil {
		t.Fatalf("Failed to query leads with Since: %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("Expected 2 recent leads, got %d", len(recent))
	}

	// Offset past the end returns an empty slice, not an error
	empty, err := b.Query(ctx, storage.Filter{Offset: 10})
	if err != nil {
		t.Fatalf("Failed to query leads with large offset: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("Expected 0 results, got %d", len(empty))
	}

	// Limit/Offset window
	window, err := b.Query(ctx, storage.Filter{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("Failed to query leads with limit/offset: %v", err)
	}
	if len(window) != 1 || window[0].ID != "j2" {
		t.Errorf("Expected j2 in window, got %+v", window)
	}
}

func TestJSONBackendQueryThenSave(t *testing.T) {
	tmpDir := t.TempDir()
	b, err := New(filepath.Join(tmpDir, "leads.ndjson"))
	if err != nil {
		t.Fatalf("Failed to create NDJSON backend: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	if err := b.Save(ctx, &storage.Lead{ID: "first", CreatedAt: now}); err != nil {
		t.Fatalf("Failed to save lead: %v", err)
	}
	if _, err := b.Query(ctx, storage.Filter{}); err != nil {
		t.Fatalf("Failed to query leads: %v", err)
	}

	// A query must not corrupt the append position for subsequent saves
	if err := b.Save(ctx, &storage.Lead{ID: "second", CreatedAt: now.Add(time.Minute)}); err != nil {
		t.Fatalf("Failed to save lead after query: %v", err)
	}

	results, err := b.Query(ctx, storage.Filter{})
	if err != nil {
		t.Fatalf("Failed to query leads: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
}
