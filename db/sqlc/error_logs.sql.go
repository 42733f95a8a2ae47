package db

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const createErrorLog = `-- name: CreateErrorLog :one
INSERT INTO error_logs (service, operation, error_message, context, retry_count, max_retries, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, service, operation, error_message, context, retry_count, max_retries, status, created_at, resolved_at
`

type CreateErrorLogParams struct {
	Service      string                `json:"service"`
	Operation    string                `json:"operation"`
	ErrorMessage string                `json:"error_message"`
	Context      pqtype.NullRawMessage `json:"context"`
	RetryCount   int32                 `json:"retry_count"`
	MaxRetries   int32                 `json:"max_retries"`
	Status       ErrorLogStatus        `json:"status"`
}

func (q *Queries) CreateErrorLog(ctx context.Context, arg CreateErrorLogParams) (ErrorLog, error) {
	row := q.db.QueryRowContext(ctx, createErrorLog,
		arg.Service,
		arg.Operation,
		arg.ErrorMessage,
		arg.Context,
		arg.RetryCount,
		arg.MaxRetries,
		arg.Status,
	)
	var i ErrorLog
	err := row.Scan(
		&i.ID,
		&i.Service,
		&i.Operation,
		&i.ErrorMessage,
		&i.Context,
		&i.RetryCount,
		&i.MaxRetries,
		&i.Status,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}

const resolveErrorLog = `-- name: ResolveErrorLog :one
UPDATE error_logs
SET status = 'RESOLVED', resolved_at = now()
WHERE id = $1
RETURNING id, service, operation, error_message, context, retry_count, max_retries, status, created_at, resolved_at
`

func (q *Queries) ResolveErrorLog(ctx context.Context, id int64) (ErrorLog, error) {
	row := q.db.QueryRowContext(ctx, resolveErrorLog, id)
	var i ErrorLog
	err := row.Scan(
		&i.ID,
		&i.Service,
		&i.Operation,
		&i.ErrorMessage,
		&i.Context,
		&i.RetryCount,
		&i.MaxRetries,
		&i.Status,
		&i.CreatedAt,
		&i.ResolvedAt,
	)
	return i, err
}

const listUnresolvedErrorLogs = `-- name: ListUnresolvedErrorLogs :many
SELECT id, service, operation, error_message, context, retry_count, max_retries, status, created_at, resolved_at
FROM error_logs
WHERE status <> 'RESOLVED'
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListUnresolvedErrorLogs(ctx context.Context, limit int32) ([]ErrorLog, error) {
	rows, err := q.db.QueryContext(ctx, listUnresolvedErrorLogs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ErrorLog
	for rows.Next() {
		var i ErrorLog
		if err := rows.Scan(
			&i.ID,
			&i.Service,
			&i.Operation,
			&i.ErrorMessage,
			&i.Context,
			&i.RetryCount,
			&i.MaxRetries,
			&i.Status,
			&i.CreatedAt,
			&i.ResolvedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
