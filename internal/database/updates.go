package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type CreateUpdateLogParams struct {
	ID           uuid.UUID
	BrandID      uuid.UUID
	BrandName    string
	FieldChanged string
	OldValue     sql.NullString
	NewValue     sql.NullString
	UpdateType   sql.NullString
	UpdatedAt    time.Time
}

func (q *Queries) CreateUpdateLog(ctx context.Context, arg CreateUpdateLogParams) (UpdateLog, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO update_logs (id, brand_id, brand_name, field_changed, old_value,
			new_value, update_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, brand_id, brand_name, field_changed, old_value, new_value,
			update_type, updated_at`,
		arg.ID, arg.BrandID, arg.BrandName, arg.FieldChanged, arg.OldValue,
		arg.NewValue, arg.UpdateType, arg.UpdatedAt)
	var l UpdateLog
	err := row.Scan(&l.ID, &l.BrandID, &l.BrandName, &l.FieldChanged,
		&l.OldValue, &l.NewValue, &l.UpdateType, &l.UpdatedAt)
	return l, err
}

type ListUpdateLogsParams struct {
	BrandID uuid.NullUUID
	Since   time.Time
}

func (q *Queries) ListUpdateLogs(ctx context.Context, arg ListUpdateLogsParams) ([]UpdateLog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, brand_id, brand_name, field_changed, old_value, new_value,
			update_type, updated_at
		FROM update_logs
		WHERE ($1::uuid IS NULL OR brand_id = $1) AND updated_at >= $2
		ORDER BY updated_at DESC`,
		arg.BrandID, arg.Since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []UpdateLog
	for rows.Next() {
		var l UpdateLog
		if err := rows.Scan(&l.ID, &l.BrandID, &l.BrandName, &l.FieldChanged,
			&l.OldValue, &l.NewValue, &l.UpdateType, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
