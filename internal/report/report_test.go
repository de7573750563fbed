package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/FranksOps/canvass/internal/storage"
)

func TestGenerateSummary(t *testing.T) {
	now := time.Now()

	leads := []*storage.Lead{
		{
			Name:      "Jane Doe",
			Email:     "jane@acme.com",
			Company:   "Acme",
			Source:    "apollo",
			CreatedAt: now,
		},
		{
			Name:        "John Roe",
			Phone:       "+1 555 0100",
			LinkedInURL: "https://linkedin.com/in/john",
			Company:     "Acme",
			Source:      "hunter",
			CreatedAt:   now.Add(1 * time.Second),
		},
		{
			Name:      "Anon",
			Source:    "hunter",
			CreatedAt: now.Add(2 * time.Second),
		},
	}

	summary := GenerateSummary(leads)

	if summary.TotalLeads != 3 {
		t.Errorf("expected 3 total leads, got %d", summary.TotalLeads)
	}
	if summary.WithEmail != 1 {
		t.Errorf("expected 1 lead with email, got %d", summary.WithEmail)
	}
	if summary.WithPhone != 1 {
		t.Errorf("expected 1 lead with phone, got %d", summary.WithPhone)
	}
	if summary.WithLinkedIn != 1 {
		t.Errorf("expected 1 lead with linkedin, got %d", summary.WithLinkedIn)
	}
	if summary.Companies["Acme"] != 2 {
		t.Errorf("expected 2 Acme leads, got %d", summary.Companies["Acme"])
	}
	if summary.Sources["hunter"] != 2 {
		t.Errorf("expected 2 hunter leads, got %d", summary.Sources["hunter"])
	}
	if got := summary.LastSeen.Sub(summary.FirstSeen); got != 2*time.Second {
		t.Errorf("expected 2s between first and last, got %v", got)
	}
}

func TestPrintLeads(t *testing.T) {
	var buf bytes.Buffer
	PrintLeads(&buf, []*storage.Lead{
		{Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme"},
		{Name: "John Roe"},
	})

	out := buf.String()
	if !strings.Contains(out, "=== FOUND 2 PEOPLE ===") {
		t.Errorf("expected header, got:\n%s", out)
	}
	if !strings.Contains(out, "1. Jane Doe") || !strings.Contains(out, "2. John Roe") {
		t.Errorf("expected numbered entries, got:\n%s", out)
	}
	if !strings.Contains(out, "Email:    jane@acme.com") {
		t.Errorf("expected email line, got:\n%s", out)
	}
	// John has no contact fields; nothing beyond the name line should print
	if strings.Count(out, "Email:") != 1 {
		t.Errorf("empty fields must be omitted, got:\n%s", out)
	}
}

func TestPrintLeads_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintLeads(&buf, nil)
	if !strings.Contains(buf.String(), "No people found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	summary := Summary{TotalLeads: 5}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), `"TotalLeads": 5`) {
		t.Errorf("expected JSON to contain TotalLeads: 5")
	}
}

func TestWriteText(t *testing.T) {
	summary := Summary{
		TotalLeads: 5,
		WithEmail:  4,
		Companies:  map[string]int{"Acme": 3, "Globex": 2},
	}
	var buf bytes.Buffer
	if err := WriteText(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Total Leads:    5") {
		t.Errorf("expected total leads line, got:\n%s", out)
	}
	if !strings.Contains(out, "Acme: 3") {
		t.Errorf("expected company count, got:\n%s", out)
	}
}

func TestWriteHTML(t *testing.T) {
	summary := Summary{
		TotalLeads: 10,
		Sources:    map[string]int{"apollo": 7, "hunter": 3},
	}
	var buf bytes.Buffer
	if err := WriteHTML(&buf, summary); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<title>Canvass Lead Report</title>") {
		t.Errorf("expected HTML title")
	}
	if !strings.Contains(out, "apollo") {
		t.Errorf("expected HTML to contain apollo source")
	}
}
