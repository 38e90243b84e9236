package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const syncLogColumns = `id, source, status, records_processed, records_inserted,
	records_updated, error_message, started_at, completed_at`

func scanSyncLog(row interface{ Scan(...any) error }) (SyncLog, error) {
	var l SyncLog
	err := row.Scan(
		&l.ID, &l.Source, &l.Status, &l.RecordsProcessed, &l.RecordsInserted,
		&l.RecordsUpdated, &l.ErrorMessage, &l.StartedAt, &l.CompletedAt,
	)
	return l, err
}

type CreateSyncLogParams struct {
	ID        uuid.UUID
	Source    string
	Status    string
	StartedAt time.Time
}

func (q *Queries) CreateSyncLog(ctx context.Context, arg CreateSyncLogParams) (SyncLog, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO sync_logs (id, source, status, started_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+syncLogColumns,
		arg.ID, arg.Source, arg.Status, arg.StartedAt)
	return scanSyncLog(row)
}

type UpdateSyncLogParams struct {
	ID               uuid.UUID
	Status           string
	RecordsProcessed sql.NullInt32
	RecordsInserted  sql.NullInt32
	RecordsUpdated   sql.NullInt32
	ErrorMessage     sql.NullString
	CompletedAt      sql.NullTime
}

func (q *Queries) UpdateSyncLog(ctx context.Context, arg UpdateSyncLogParams) (SyncLog, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE sync_logs SET status = $2, records_processed = $3,
			records_inserted = $4, records_updated = $5, error_message = $6,
			completed_at = $7
		WHERE id = $1
		RETURNING `+syncLogColumns,
		arg.ID, arg.Status, arg.RecordsProcessed, arg.RecordsInserted,
		arg.RecordsUpdated, arg.ErrorMessage, arg.CompletedAt)
	return scanSyncLog(row)
}

type ListRecentSyncLogsParams struct {
	Source string
	Limit  int32
}

func (q *Queries) ListRecentSyncLogs(ctx context.Context, arg ListRecentSyncLogsParams) ([]SyncLog, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+syncLogColumns+` FROM sync_logs
		WHERE ($1 = '' OR source = $1)
		ORDER BY started_at DESC LIMIT $2`,
		arg.Source, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var logs []SyncLog
	for rows.Next() {
		l, err := scanSyncLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (q *Queries) GetLastSyncLog(ctx context.Context, source string) (SyncLog, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+syncLogColumns+` FROM sync_logs
		WHERE source = $1 ORDER BY started_at DESC LIMIT 1`, source)
	return scanSyncLog(row)
}
