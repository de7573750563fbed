// Package hunter implements the Hunter.io domain-search provider.
package hunter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/FranksOps/canvass/internal/metrics"
	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/FranksOps/canvass/pkg/httpclient"
	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.hunter.io/v2"

// ensure Client implements provider.Provider
var _ provider.Provider = (*Client)(nil)

// Config defines the setup for the Hunter client.
type Config struct {
	APIKey  string
	BaseURL string
	HTTP    *httpclient.Client
}

// Client is a stateless request builder for the Hunter domain-search endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

// New creates a Hunter client. The API key is checked at search time.
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

func (c *Client) Name() string { return "hunter" }

// Search looks up people at the company domain named by the criteria. A job
// title, when present, is forwarded as the position filter.
func (c *Client) Search(ctx context.Context, crit provider.Criteria) ([]storage.Lead, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("hunter: %w", provider.ErrNoAPIKey)
	}
	if crit.Domain == "" {
		return nil, errors.New("hunter: domain is required")
	}

	limit := crit.Limit
	if limit <= 0 {
		limit = 25
	}

	params := url.Values{}
	params.Set("domain", crit.Domain)
	params.Set("api_key", c.apiKey)
	params.Set("limit", strconv.Itoa(limit))
	if len(crit.JobTitles) > 0 {
		params.Set("position", crit.JobTitles[0])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/domain-search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("hunter: build request: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordSearch(c.Name(), -1, time.Since(start), 0)
		return nil, fmt.Errorf("hunter: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSearch(c.Name(), resp.StatusCode, time.Since(start), 0)
		return nil, fmt.Errorf("hunter: read body: %w", err)
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

type searchResponse struct {
	Data struct {
		Organization string       `json:"organization"`
		Emails       []emailEntry `json:"emails"`
	} `json:"data"`
}

type emailEntry struct {
	Value     string `json:"value"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Linkedin  string `json:"linkedin"`
	Phone     string `json:"phone_number"`
}

// ParseResponse maps a raw Hunter response body onto canonical leads. The
// organization field is shared by every email row in the response.
func ParseResponse(raw []byte) ([]storage.Lead, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("hunter: decode response: %w", err)
	}

	leads := make([]storage.Lead, 0, len(resp.Data.Emails))
	now := time.Now().UTC()
	for _, e := range resp.Data.Emails {
		leads = append(leads, storage.Lead{
			ID:          uuid.New().String(),
			Name:        strings.TrimSpace(e.FirstName + " " + e.LastName),
			Email:       e.Value,
			Phone:       e.Phone,
			LinkedInURL: e.Linkedin,
			JobTitle:    e.Position,
			Company:     resp.Data.Organization,
			Source:      "hunter",
			CreatedAt:   now,
		})
	}
	return leads, nil
}
