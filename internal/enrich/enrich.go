// Package enrich augments leads with missing contact channels via Clado.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FranksOps/canvass/internal/metrics"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/FranksOps/canvass/pkg/httpclient"
	"github.com/FranksOps/canvass/pkg/ratelimit"
)

const (
	defaultBaseURL = "https://search.clado.ai"
	defaultPacing  = 500 * time.Millisecond
)

// Enricher fills missing contact fields on a batch of leads. Implementations
// must return a slice of the same length and order as the input.
type Enricher interface {
	Enrich(ctx context.Context, leads []storage.Lead) []storage.Lead
}

// ensure Clado implements Enricher
var _ Enricher = (*Clado)(nil)

// Config defines the setup for the Clado enrichment client.
type Config struct {
	APIKey  string
	BaseURL string
	HTTP    *httpclient.Client
	// Pacing is the fixed delay applied after each per-lead lookup. It is a
	// sequential throttle, not a concurrency mechanism. Defaults to 500ms.
	Pacing time.Duration
	Logger *slog.Logger
}

// Clado looks up additional contact info per lead, one record at a time,
// tolerating individual failures.
type Clado struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
	pacing  time.Duration
	logger  *slog.Logger
}

// New creates a Clado enricher. A keyless enricher is a warned passthrough.
func New(cfg Config) *Clado {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.New(httpclient.Config{})
	}
	if cfg.Pacing == 0 {
		cfg.Pacing = defaultPacing
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Clado{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTP,
		pacing:  cfg.Pacing,
		logger:  cfg.Logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Clado) Enabled() bool { return c.apiKey != "" }

// Enrich processes leads in input order. For each lead the lookup key is the
// LinkedIn URL when present, else the email; leads with neither pass through
// untouched. Email and phone are only ever filled when currently empty, and a
// failed lookup leaves its lead unchanged without stopping the batch.
func (c *Clado) Enrich(ctx context.Context, leads []storage.Lead) []storage.Lead {
	if !c.Enabled() {
		c.logger.Warn("clado api key not configured, skipping enrichment")
		return leads
	}

	out := make([]storage.Lead, len(leads))
	copy(out, leads)

	limiter := ratelimit.NewInterval(c.pacing, 0)
	defer limiter.Stop()

	for i := range out {
		lead := &out[i]

		params := url.Values{}
		switch {
		case lead.LinkedInURL != "":
			params.Set("linkedin_url", lead.LinkedInURL)
		case lead.Email != "":
			params.Set("email", lead.Email)
		default:
			metrics.RecordEnrich("skipped")
			continue
		}

		changed, err := c.lookup(ctx, lead, params)
		if err != nil {
			c.logger.Warn("enrichment failed, keeping lead unchanged",
				"name", lead.Name, "err", err)
			metrics.RecordEnrich("error")
		} else if changed {
			metrics.RecordEnrich("enriched")
		} else {
			metrics.RecordEnrich("unchanged")
		}

		// Fixed pacing after every lookup call
		if err := limiter.Wait(ctx); err != nil {
			c.logger.Warn("enrichment pacing interrupted", "err", err)
			return out
		}
	}

	return out
}

type contactEntry struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type enrichResponse struct {
	Data []struct {
		Contacts []contactEntry `json:"contacts"`
	} `json:"data"`
}

// lookup issues one enrichment call and fills empty fields on the lead.
func (c *Clado) lookup(ctx context.Context, lead *storage.Lead, params url.Values) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/enrich/contacts?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("clado: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("clado: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("clado: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("clado: read body: %w", err)
	}

	var decoded enrichResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return false, fmt.Errorf("clado: decode response: %w", err)
	}
	if len(decoded.Data) == 0 {
		return false, nil
	}

	changed := false
	for _, contact := range decoded.Data[0].Contacts {
		switch contact.Type {
		case "email":
			if lead.Email == "" && contact.Value != "" {
				lead.Email = contact.Value
				changed = true
			}
		case "phone":
			if lead.Phone == "" && contact.Value != "" {
				lead.Phone = contact.Value
				changed = true
			}
		}
	}
	return changed, nil
}
