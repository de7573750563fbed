// Package nlparse extracts structured search filters from free text via a
// chat-completion call. The model is treated as an opaque text-to-JSON
// collaborator; its output is scanned for a JSON object and nothing more.
package nlparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/pkg/httpclient"
)

const (
	defaultBaseURL = "https://api.openai.com"
	model          = "gpt-4o-mini"
)

// Config defines the setup for the extraction client.
type Config struct {
	APIKey  string
	BaseURL string
	HTTP    *httpclient.Client
}

// Client asks a chat-completion endpoint to pull a company domain and an
// optional job title out of a search phrase.
type Client struct {
	apiKey  string
	baseURL string
	http    *httpclient.Client
}

// New creates an extraction client.
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

const promptTemplate = `Extract the company domain and job title (if any) from the following search query.

Query: %q

Return a JSON object with keys 'domain' and 'job_title'. If job title is not specified, set it to null.

Examples:
- Query: 'Find engineers at google.com'
  Output: {"domain": "google.com", "job_title": "engineer"}
- Query: 'Show people at netflix.com'
  Output: {"domain": "netflix.com", "job_title": null}
- Query: 'Find CEO at stripe.com'
  Output: {"domain": "stripe.com", "job_title": "CEO"}

Query: %q
Output:`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type extraction struct {
	Domain   string `json:"domain"`
	JobTitle string `json:"job_title"`
}

// jsonObjectRe finds the first {...} block in the model reply, spanning lines.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// Extract returns the company domain and job title named in the query. A
// reply the client cannot turn into a domain is an error; callers report it
// and re-prompt rather than aborting.
func (c *Client) Extract(ctx context.Context, query string) (domain, jobTitle string, err error) {
	if c.apiKey == "" {
		return "", "", fmt.Errorf("nlparse: %w", provider.ErrNoAPIKey)
	}

	body, err := json.Marshal(chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: fmt.Sprintf(promptTemplate, query, query)}},
		MaxTokens:   100,
		Temperature: 0,
	})
	if err != nil {
		return "", "", fmt.Errorf("nlparse: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("nlparse: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("nlparse: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("nlparse: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("nlparse: unexpected status %d: %s", resp.StatusCode, raw)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", "", fmt.Errorf("nlparse: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", "", fmt.Errorf("nlparse: empty completion")
	}

	return parseReply(decoded.Choices[0].Message.Content)
}

// parseReply pulls the extraction object out of the model's free-form reply.
func parseReply(content string) (string, string, error) {
	text := content
	if match := jsonObjectRe.FindString(content); match != "" {
		text = match
	}

	var ex extraction
	if err := json.Unmarshal([]byte(text), &ex); err != nil {
		return "", "", fmt.Errorf("nlparse: could not extract filters from reply %q", content)
	}
	if ex.Domain == "" {
		return "", "", fmt.Errorf("nlparse: could not extract a domain from reply %q", content)
	}
	return ex.Domain, ex.JobTitle, nil
}
