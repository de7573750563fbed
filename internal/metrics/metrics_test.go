package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestMetricsServer(t *testing.T) {
	srv := Start(8898)
	// Give it a tiny bit of time to start up
	time.Sleep(100 * time.Millisecond)

	defer srv.Stop(context.Background())

	RecordSearch("apollo", 200, time.Second, 3)
	RecordSearch("hunter", -1, 50*time.Millisecond, 0)
	RecordEnrich("enriched")

	resp, err := http.Get("http://localhost:8898/metrics")
	if err != nil {
		t.Fatalf("failed to fetch metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	output := string(body)

	if !strings.Contains(output, `canvass_provider_requests_total{provider="apollo",status="200"}`) {
		t.Errorf("expected apollo request counter")
	}
	if !strings.Contains(output, `canvass_provider_requests_total{provider="hunter",status="error"}`) {
		t.Errorf("expected hunter error counter")
	}
	if !strings.Contains(output, "canvass_provider_request_duration_seconds_bucket") {
		t.Errorf("expected provider duration histogram")
	}
	if !strings.Contains(output, `canvass_leads_total{source="apollo"}`) {
		t.Errorf("expected leads counter for apollo")
	}
	if !strings.Contains(output, `canvass_enrich_requests_total{status="enriched"}`) {
		t.Errorf("expected enrich counter")
	}
}
