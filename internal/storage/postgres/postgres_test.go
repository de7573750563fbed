package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/FranksOps/canvass/internal/storage"
)

func TestPostgresBackend(t *testing.T) {
	// Only run this test if CANVASS_TEST_PG_DSN is set
	dsn := os.Getenv("CANVASS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("Skipping Postgres backend test: CANVASS_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	b, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create Postgres backend: %v", err)
	}
	defer b.Close()

	now := time.Now().UTC()

	lead := &storage.Lead{
		ID:          "testpg1234",
		Name:        "Jane Doe",
		Email:       "jane@acme-pg.com",
		Phone:       "+1 555 0100",
		LinkedInURL: "https://linkedin.com/in/jane",
		JobTitle:    "Director of Engineering",
		Company:     "AcmePG",
		Location:    "Denver",
		Source:      "apollo",
		CreatedAt:   now,
	}

	err = b.Save(ctx, lead)
	if err != nil {
		t.Fatalf("Failed to save lead: %v", err)
	}

	// Test Query
	filter := storage.Filter{
		Company: "AcmePG",
	}

	results, err := b.Query(ctx, filter)
	if err != nil {
		t.Fatalf("Failed to query leads: %v", err)
	}

	// Can be more than 1 if tests run repeatedly, so we just check the most recent
	if len(results) < 1 {
		t.Fatalf("Expected at least 1 result, got %d", len(results))
	}

	got := results[0]
	if got.ID != lead.ID {
		t.Errorf("Expected ID %s, got %s", lead.ID, got.ID)
	}
	if got.Name != lead.Name {
		t.Errorf("Expected Name %s, got %s", lead.Name, got.Name)
	}
	if got.Email != lead.Email {
		t.Errorf("Expected Email %s, got %s", lead.Email, got.Email)
	}
	if got.Phone != lead.Phone {
		t.Errorf("Expected Phone %s, got %s", lead.Phone, got.Phone)
	}
	if got.LinkedInURL != lead.LinkedInURL {
		t.Errorf("Expected LinkedInURL %s, got %s", lead.LinkedInURL, got.LinkedInURL)
	}
	if got.JobTitle != lead.JobTitle {
		t.Errorf("Expected JobTitle %s, got %s", lead.JobTitle, got.JobTitle)
	}
	if got.Company != lead.Company {
		t.Errorf("Expected Company %s, got %s", lead.Company, got.Company)
	}
	if got.Location != lead.Location {
		t.Errorf("Expected Location %s, got %s", lead.Location, got.Location)
	}
	if got.Source != lead.Source {
		t.Errorf("Expected Source %s, got %s", lead.Source, got.Source)
	}

	// Postgres timestamps might differ slightly in sub-millisecond precision
	// compared to Go time.Now(), checking Unix seconds is usually safe enough
	if got.CreatedAt.Unix() != lead.CreatedAt.Unix() {
		t.Errorf("Expected CreatedAt %v, got %v", lead.CreatedAt, got.CreatedAt)
	}

	// Test Since filter
	past := now.Add(-1 * time.Hour)
	filterSince := storage.Filter{Company: "AcmePG", Since: &past}
	resultsSince, err := b.Query(ctx, filterSince)
	if err != nil {
		t.Fatalf("Failed to query leads with Since: %v", err)
	}
	if len(resultsSince) < 1 {
		t.Fatalf("Expected at least 1 result, got %d", len(resultsSince))
	}

	// Test HasEmail filter
	hasEmail := true
	filterEmail := storage.Filter{Company: "AcmePG", HasEmail: &hasEmail}
	resultsEmail, err := b.Query(ctx, filterEmail)
	if err != nil {
		t.Fatalf("Failed to query leads with HasEmail: %v", err)
	}
	if len(resultsEmail) < 1 {
		t.Fatalf("Expected at least 1 result, got %d", len(resultsEmail))
	}
}
