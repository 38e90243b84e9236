package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const pendingColumns = `id, name, website, instagram_handle, tiktok_handle,
	category, location, confidence_score, discovered_at, status, source, metadata_json`

func scanPendingBrand(row interface{ Scan(...any) error }) (PendingBrand, error) {
	var p PendingBrand
	err := row.Scan(
		&p.ID, &p.Name, &p.Website, &p.InstagramHandle, &p.TiktokHandle,
		&p.Category, &p.Location, &p.ConfidenceScore, &p.DiscoveredAt,
		&p.Status, &p.Source, &p.MetadataJson,
	)
	return p, err
}

type CreatePendingBrandParams struct {
	ID              uuid.UUID
	Name            string
	Website         sql.NullString
	InstagramHandle sql.NullString
	TiktokHandle    sql.NullString
	Category        sql.NullString
	Location        sql.NullString
	ConfidenceScore sql.NullFloat64
	DiscoveredAt    time.Time
	Status          string
	Source          sql.NullString
	MetadataJson    sql.NullString
}

func (q *Queries) CreatePendingBrand(ctx context.Context, arg CreatePendingBrandParams) (PendingBrand, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO pending_brands (id, name, website, instagram_handle, tiktok_handle,
			category, location, confidence_score, discovered_at, status, source, metadata_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+pendingColumns,
		arg.ID, arg.Name, arg.Website, arg.InstagramHandle, arg.TiktokHandle,
		arg.Category, arg.Location, arg.ConfidenceScore, arg.DiscoveredAt,
		arg.Status, arg.Source, arg.MetadataJson)
	return scanPendingBrand(row)
}

func (q *Queries) GetPendingBrandByID(ctx context.Context, id uuid.UUID) (PendingBrand, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pendingColumns+` FROM pending_brands WHERE id = $1`, id)
	return scanPendingBrand(row)
}

func (q *Queries) ListPendingBrands(ctx context.Context, status string) ([]PendingBrand, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+pendingColumns+` FROM pending_brands
		WHERE ($1 = '' OR status = $1)
		ORDER BY discovered_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var pending []PendingBrand
	for rows.Next() {
		p, err := scanPendingBrand(rows)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

type UpdatePendingBrandStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdatePendingBrandStatus(ctx context.Context, arg UpdatePendingBrandStatusParams) (PendingBrand, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE pending_brands SET status = $2 WHERE id = $1
		RETURNING `+pendingColumns,
		arg.ID, arg.Status)
	return scanPendingBrand(row)
}
