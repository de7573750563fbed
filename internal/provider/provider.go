package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/FranksOps/canvass/internal/storage"
)

// Criteria is the normalized set of search filters derived from user input or
// query classification. It is produced once and consumed by a single search.
type Criteria struct {
	JobTitles    []string
	CompanyNames []string
	Locations    []string
	Keywords     []string
	// Domain targets a single company domain. Only Hunter uses it; the
	// aggregator issues one search per domain.
	Domain string
	Limit  int
}

// Provider abstracts a people-search service that returns normalized leads
// for a set of criteria. Implementations are stateless request builders.
type Provider interface {
	Name() string
	Search(ctx context.Context, c Criteria) ([]storage.Lead, error)
}

// ErrNoAPIKey is returned before any network call when a provider has no key.
var ErrNoAPIKey = errors.New("api key not configured")

// StatusError reports a non-success HTTP reply from a provider, carrying the
// status code and the raw body for diagnostics.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}
