package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FranksOps/canvass/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	phone TEXT NOT NULL,
	linkedin_url TEXT NOT NULL,
	job_title TEXT NOT NULL,
	company TEXT NOT NULL,
	location TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create leads table: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, lead *storage.Lead) error {
	query := `
	INSERT INTO leads (
		id, name, email, phone, linkedin_url, job_title, company, location, source, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := b.db.ExecContext(ctx, query,
		lead.ID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.LinkedInURL,
		lead.JobTitle,
		lead.Company,
		lead.Location,
		lead.Source,
		lead.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

func (b *sqliteBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Lead, error) {
	query := `SELECT id, name, email, phone, linkedin_url, job_title, company, location, source, created_at FROM leads WHERE 1=1`
	args := []any{}

	if filter.Company != "" {
		query += ` AND company = ?`
		args = append(args, filter.Company)
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			query += ` AND email != ''`
		} else {
			query += ` AND email = ''`
		}
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	var leads []*storage.Lead
	for rows.Next() {
		var l storage.Lead
		err := rows.Scan(
			&l.ID, &l.Name, &l.Email, &l.Phone, &l.LinkedInURL,
			&l.JobTitle, &l.Company, &l.Location, &l.Source, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		leads = append(leads, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lead rows: %w", err)
	}

	return leads, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
