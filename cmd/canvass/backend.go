package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/FranksOps/canvass/internal/storage"
	"github.com/FranksOps/canvass/internal/storage/csvbackend"
	"github.com/FranksOps/canvass/internal/storage/jsonbackend"
	"github.com/FranksOps/canvass/internal/storage/postgres"
	"github.com/FranksOps/canvass/internal/storage/sqlite"
)

// openBackend maps a --store selection to a storage.Backend. The dsn is a
// file path for csv/ndjson/sqlite and a connection string for postgres.
func openBackend(ctx context.Context, store, dsn string) (storage.Backend, error) {
	switch store {
	case "csv":
		if dsn == "" {
			dsn = "leads.csv"
		}
		return csvbackend.New(dsn)
	case "ndjson", "json":
		if dsn == "" {
			dsn = "leads.ndjson"
		}
		return jsonbackend.New(dsn)
	case "sqlite":
		if dsn == "" {
			dsn = "leads.db"
		}
		return sqlite.New(dsn)
	case "postgres":
		if dsn == "" {
			return nil, fmt.Errorf("postgres store requires --dsn")
		}
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store %q (want csv, ndjson, sqlite or postgres)", store)
	}
}

// exportCSV writes leads to a fresh CSV file at path.
func exportCSV(ctx context.Context, path string, leads []storage.Lead) error {
	// Truncate any previous export so the file holds exactly this result set
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	b, err := csvbackend.New(path)
	if err != nil {
		return err
	}
	defer b.Close()

	return storage.SaveAll(ctx, b, leads)
}

// exportJSON writes leads to path as a JSON array.
func exportJSON(path string, leads []storage.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(leads); err != nil {
		return fmt.Errorf("failed to encode leads: %w", err)
	}
	return nil
}

func leadPtrs(leads []storage.Lead) []*storage.Lead {
	ptrs := make([]*storage.Lead, len(leads))
	for i := range leads {
		ptrs[i] = &leads[i]
	}
	return ptrs
}
