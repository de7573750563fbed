package postgres

import (
	"context"
	"fmt"

	"github.com/FranksOps/canvass/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
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
	created_at TIMESTAMPTZ NOT NULL
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create leads table: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, lead *storage.Lead) error {
	query := `
	INSERT INTO leads (
		id, name, email, phone, linkedin_url, job_title, company, location, source, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := b.pool.Exec(ctx, query,
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

func (b *postgresBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.Lead, error) {
	query := `SELECT id, name, email, phone, linkedin_url, job_title, company, location, source, created_at FROM leads WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Company != "" {
		query += fmt.Sprintf(` AND company = $%d`, paramCount)
		args = append(args, filter.Company)
		paramCount++
	}
	if filter.Source != "" {
		query += fmt.Sprintf(` AND source = $%d`, paramCount)
		args = append(args, filter.Source)
		paramCount++
	}
	if filter.HasEmail != nil {
		if *filter.HasEmail {
			query += ` AND email != ''`
		} else {
			query += ` AND email = ''`
		}
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
		paramCount++
	}

	rows, err := b.pool.Query(ctx, query, args...)
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

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
