package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type CreateCreditUsageParams struct {
	ID            uuid.UUID
	OperationType string
	Description   sql.NullString
	CostUsd       float64
	MetadataJson  sql.NullString
	CreatedAt     time.Time
}

func (q *Queries) CreateCreditUsage(ctx context.Context, arg CreateCreditUsageParams) (CreditUsage, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO credit_usage (id, operation_type, description, cost_usd, metadata_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, operation_type, description, cost_usd, metadata_json, created_at`,
		arg.ID, arg.OperationType, arg.Description, arg.CostUsd,
		arg.MetadataJson, arg.CreatedAt)
	var u CreditUsage
	err := row.Scan(&u.ID, &u.OperationType, &u.Description, &u.CostUsd,
		&u.MetadataJson, &u.CreatedAt)
	return u, err
}

func (q *Queries) ListCreditUsageSince(ctx context.Context, since time.Time) ([]CreditUsage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, operation_type, description, cost_usd, metadata_json, created_at
		FROM credit_usage WHERE created_at >= $1 ORDER BY created_at`,
		since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var usage []CreditUsage
	for rows.Next() {
		var u CreditUsage
		if err := rows.Scan(&u.ID, &u.OperationType, &u.Description, &u.CostUsd,
			&u.MetadataJson, &u.CreatedAt); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
