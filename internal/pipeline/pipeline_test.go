package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/storage"
)

// fakeProvider implements provider.Provider for testing.
type fakeProvider struct {
	name     string
	err      error
	searches []provider.Criteria
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Search(ctx context.Context, c provider.Criteria) ([]storage.Lead, error) {
	f.searches = append(f.searches, c)
	if f.err != nil {
		return nil, f.err
	}
	if c.Domain != "" {
		return []storage.Lead{{Name: f.name + ":" + c.Domain, Source: f.name}}, nil
	}
	return []storage.Lead{
		{Name: f.name + ":1", Source: f.name},
		{Name: f.name + ":2", Source: f.name},
	}, nil
}

type fakeEnricher struct {
	called bool
}

func (f *fakeEnricher) Enrich(ctx context.Context, leads []storage.Lead) []storage.Lead {
	f.called = true
	out := make([]storage.Lead, len(leads))
	copy(out, leads)
	for i := range out {
		if out[i].Email == "" {
			out[i].Email = "enriched@example.com"
		}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_FAANGOrdering(t *testing.T) {
	apollo := &fakeProvider{name: "apollo"}
	hunter := &fakeProvider{name: "hunter"}
	p := Pipeline{Apollo: apollo, Hunter: hunter, Logger: testLogger()}

	leads, err := p.Run(context.Background(), "People working in FAANG")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := []string{
		"apollo:1", "apollo:2",
		"hunter:meta.com", "hunter:apple.com", "hunter:amazon.com",
		"hunter:netflix.com", "hunter:google.com",
	}
	if len(leads) != len(want) {
		t.Fatalf("got %d leads, want %d", len(leads), len(want))
	}
	for i, name := range want {
		if leads[i].Name != name {
			t.Errorf("leads[%d] = %q, want %q (apollo first, then fixed domain order)", i, leads[i].Name, name)
		}
	}

	if len(apollo.searches) != 1 {
		t.Errorf("apollo called %d times, want 1", len(apollo.searches))
	}
	if got := apollo.searches[0].Limit; got != 50 {
		t.Errorf("FAANG apollo limit = %d, want 50", got)
	}
	if len(hunter.searches) != 5 {
		t.Errorf("hunter called %d times, want 5", len(hunter.searches))
	}
}

func TestRun_TitleBranchApolloOnly(t *testing.T) {
	apollo := &fakeProvider{name: "apollo"}
	hunter := &fakeProvider{name: "hunter"}
	p := Pipeline{Apollo: apollo, Hunter: hunter, Logger: testLogger()}

	leads, err := p.Run(context.Background(), "Software engineers at Google")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("got %d leads, want 2", len(leads))
	}
	if len(hunter.searches) != 0 {
		t.Errorf("hunter must not run on the title branch, got %d calls", len(hunter.searches))
	}
	if got := apollo.searches[0].Limit; got != 25 {
		t.Errorf("title branch limit = %d, want 25", got)
	}
}

func TestRun_NoMatchReturnsEmpty(t *testing.T) {
	apollo := &fakeProvider{name: "apollo"}
	p := Pipeline{Apollo: apollo, Logger: testLogger()}

	leads, err := p.Run(context.Background(), "something unrelated")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("expected no leads, got %d", len(leads))
	}
	if len(apollo.searches) != 0 {
		t.Errorf("no provider should be called for an unmatched query")
	}
}

func TestRun_ProviderFailureDegrades(t *testing.T) {
	apollo := &fakeProvider{name: "apollo", err: errors.New("upstream down")}
	hunter := &fakeProvider{name: "hunter"}
	p := Pipeline{Apollo: apollo, Hunter: hunter, Logger: testLogger()}

	leads, err := p.Run(context.Background(), "faang recruiters")
	if err != nil {
		t.Fatalf("provider failure must not abort the aggregation: %v", err)
	}
	if len(leads) != 5 {
		t.Fatalf("expected the 5 hunter domain results, got %d", len(leads))
	}
	if leads[0].Name != "hunter:meta.com" {
		t.Errorf("unexpected first lead %q", leads[0].Name)
	}
}

func TestRun_MissingProvidersYieldEmpty(t *testing.T) {
	p := Pipeline{Logger: testLogger()}
	leads, err := p.Run(context.Background(), "People working in FAANG")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(leads) != 0 {
		t.Errorf("expected no leads without providers, got %d", len(leads))
	}
}

func TestRun_EnrichmentAppliedToFullList(t *testing.T) {
	apollo := &fakeProvider{name: "apollo"}
	enricher := &fakeEnricher{}
	p := Pipeline{Apollo: apollo, Enricher: enricher, Logger: testLogger()}

	leads, err := p.Run(context.Background(), "CTOs in Boston")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !enricher.called {
		t.Fatal("enricher was not invoked")
	}
	for i, l := range leads {
		if l.Email != "enriched@example.com" {
			t.Errorf("lead %d not enriched: %+v", i, l)
		}
	}
}

func TestRun_EnricherSkippedWhenEmpty(t *testing.T) {
	apollo := &fakeProvider{name: "apollo", err: errors.New("down")}
	enricher := &fakeEnricher{}
	p := Pipeline{Apollo: apollo, Enricher: enricher, Logger: testLogger()}

	if _, err := p.Run(context.Background(), "CTOs anywhere"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if enricher.called {
		t.Error("enricher must not run over an empty result list")
	}
}
