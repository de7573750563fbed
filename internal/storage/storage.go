package storage

import (
	"context"
	"time"
)

// Lead is the canonical contact record produced by every search provider.
// Fields a provider does not supply are empty strings, never nulls.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	LinkedInURL string    `json:"linkedin_url"`
	JobTitle    string    `json:"job_title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Source      string    `json:"source"` // e.g. "apollo", "hunter", "scrape"
	CreatedAt   time.Time `json:"created_at"`
}

// Filter allows querying for specific Leads.
type Filter struct {
	Company  string
	Source   string
	HasEmail *bool
	Since    *time.Time
	Limit    int
	Offset   int
}

// Backend defines the interface for storing and querying leads.
type Backend interface {
	Save(ctx context.Context, lead *Lead) error
	Query(ctx context.Context, filter Filter) ([]*Lead, error)
	Close() error
}

// SaveAll persists a batch of leads in input order, stopping at the first error.
func SaveAll(ctx context.Context, b Backend, leads []Lead) error {
	for i := range leads {
		if err := b.Save(ctx, &leads[i]); err != nil {
			return err
		}
	}
	return nil
}
