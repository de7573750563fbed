// Package apollo implements the Apollo.io people-search provider.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FranksOps/canvass/internal/metrics"
	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/FranksOps/canvass/pkg/httpclient"
	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// ensure Client implements provider.Provider
var _ provider.Provider = (*Client)(nil)

// Config defines the setup for the Apollo client.
type Config struct {
	APIKey string
	// BaseURL overrides the API root, e.g. for the /api/v1 variant or tests.
	BaseURL string
	HTTP    *httpclient.Client
}

// Client is a stateless request builder for the Apollo people-search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

// Options carries the extended Apollo filters beyond the common criteria.
// Zero values are never sent.
type Options struct {
	Page                 int
	Seniorities          []string
	OrganizationDomains  []string
	ContactEmailStatus   []string
	EmployeeRanges       []string
	IncludeSimilarTitles bool
}

// New creates an Apollo client. The API key is checked at search time so a
// keyless client can exist without being usable.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTP == nil {
		cfg.HTTP = httpclient.New(httpclient.Config{})
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTP,
	}
}

func (c *Client) Name() string { return "apollo" }

// Search issues a single people-search request for the given criteria.
func (c *Client) Search(ctx context.Context, crit provider.Criteria) ([]storage.Lead, error) {
	return c.SearchWithOptions(ctx, crit, Options{})
}

// SearchWithOptions issues a people-search request with extended filters.
// The request body carries only keys whose inputs are non-empty.
func (c *Client) SearchWithOptions(ctx context.Context, crit provider.Criteria, opts Options) ([]storage.Lead, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("apollo: %w", provider.ErrNoAPIKey)
	}

	payload := buildPayload(crit, opts)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("apollo: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mixed_people/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apollo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordSearch(c.Name(), -1, time.Since(start), 0)
		return nil, fmt.Errorf("apollo: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSearch(c.Name(), resp.StatusCode, time.Since(start), 0)
		return nil, fmt.Errorf("apollo: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RecordSearch(c.Name(), resp.StatusCode, time.Since(start), 0)
		return nil, &provider.StatusError{Provider: c.Name(), StatusCode: resp.StatusCode, Body: string(raw)}
	}

	leads, err := ParseResponse(raw)
	if err != nil {
		metrics.RecordSearch(c.Name(), resp.StatusCode, time.Since(start), 0)
		return nil, err
	}

	metrics.RecordSearch(c.Name(), resp.StatusCode, time.Since(start), len(leads))
	return leads, nil
}

// buildPayload maps criteria and options onto the Apollo request body.
// Absent fields never appear, not even as empty lists.
func buildPayload(crit provider.Criteria, opts Options) map[string]any {
	limit := crit.Limit
	if limit <= 0 {
		limit = 25
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	payload := map[string]any{
		"page":     page,
		"per_page": limit,
	}

	if len(crit.JobTitles) > 0 {
		payload["person_titles"] = crit.JobTitles
	}
	if len(crit.CompanyNames) > 0 {
		payload["organization_names"] = crit.CompanyNames
	}
	if len(crit.Locations) > 0 {
		payload["person_locations"] = crit.Locations
	}
	if len(crit.Keywords) > 0 {
		payload["q_keywords"] = strings.Join(crit.Keywords, " ")
	}

	if len(opts.Seniorities) > 0 {
		payload["person_seniorities"] = opts.Seniorities
	}
	if len(opts.OrganizationDomains) > 0 {
		payload["q_organization_domains_list"] = opts.OrganizationDomains
	}
	if len(opts.ContactEmailStatus) > 0 {
		payload["contact_email_status"] = opts.ContactEmailStatus
	}
	if len(opts.EmployeeRanges) > 0 {
		payload["organization_num_employees_ranges"] = opts.EmployeeRanges
	}
	if opts.IncludeSimilarTitles {
		payload["include_similar_titles"] = true
	}

	return payload
}

type searchResponse struct {
	People []personEntry `json:"people"`
}

type personEntry struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	LinkedinURL  string `json:"linkedin_url"`
	Title        string `json:"title"`
	City         string `json:"city"`
	Organization struct {
		Name string `json:"name"`
	} `json:"organization"`
}

// ParseResponse maps a raw Apollo response body onto canonical leads. Every
// item in the people list yields one lead, in order; no record is dropped.
func ParseResponse(raw []byte) ([]storage.Lead, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("apollo: decode response: %w", err)
	}

	leads := make([]storage.Lead, 0, len(resp.People))
	now := time.Now().UTC()
	for _, p := range resp.People {
		leads = append(leads, storage.Lead{
			ID:          uuid.New().String(),
			Name:        p.Name,
			Email:       p.Email,
			Phone:       p.Phone,
			LinkedInURL: p.LinkedinURL,
			JobTitle:    p.Title,
			Company:     p.Organization.Name,
			Location:    p.City,
			Source:      "apollo",
			CreatedAt:   now,
		})
	}
	return leads, nil
}
