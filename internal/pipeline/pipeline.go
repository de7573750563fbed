// Package pipeline orchestrates one lead search: query classification,
// provider fan-out, and best-effort enrichment of the combined results.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/FranksOps/canvass/internal/classify"
	"github.com/FranksOps/canvass/internal/enrich"
	"github.com/FranksOps/canvass/internal/provider"
	"github.com/FranksOps/canvass/internal/storage"
)

// Pipeline wires the stage components together. Providers and the enricher
// are optional; a missing component degrades to zero records from that stage.
type Pipeline struct {
	Apollo   provider.Provider
	Hunter   provider.Provider
	Enricher enrich.Enricher
	Logger   *slog.Logger
}

// Run executes a full search for a free-text query. Execution is strictly
// sequential: Apollo first, then one Hunter lookup per classified domain in
// table order, then enrichment over the concatenated list. Individual
// provider failures are logged and contribute zero records; they never abort
// the aggregation.
func (p *Pipeline) Run(ctx context.Context, query string) ([]storage.Lead, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	res := classify.Classify(query)
	if !res.Matched {
		logger.Debug("query matched no search rule", "query", query)
		return nil, nil
	}

	var leads []storage.Lead

	if p.Apollo != nil {
		found, err := p.Apollo.Search(ctx, res.Criteria)
		if err != nil {
			logger.Warn("apollo search failed", "err", err)
		} else {
			logger.Debug("apollo search done", "leads", len(found))
			leads = append(leads, found...)
		}
	}

	for _, domain := range res.Domains {
		if p.Hunter == nil {
			break
		}
		found, err := p.Hunter.Search(ctx, provider.Criteria{Domain: domain})
		if err != nil {
			logger.Warn("hunter search failed", "domain", domain, "err", err)
			continue
		}
		logger.Debug("hunter search done", "domain", domain, "leads", len(found))
		leads = append(leads, found...)
	}

	if len(leads) > 0 && p.Enricher != nil {
		leads = p.Enricher.Enrich(ctx, leads)
	}

	return leads, nil
}
