package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createDisbursementSchedule = `-- name: CreateDisbursementSchedule :one
INSERT INTO disbursement_schedules (subscription_id, amount, roi_percentage, frequency, next_disbursement)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
`

type CreateDisbursementScheduleParams struct {
	SubscriptionID   uuid.UUID         `json:"subscription_id"`
	Amount           decimal.Decimal   `json:"amount"`
	RoiPercentage    decimal.Decimal   `json:"roi_percentage"`
	Frequency        ScheduleFrequency `json:"frequency"`
	NextDisbursement time.Time         `json:"next_disbursement"`
}

func (q *Queries) CreateDisbursementSchedule(ctx context.Context, arg CreateDisbursementScheduleParams) (DisbursementSchedule, error) {
	row := q.db.QueryRowContext(ctx, createDisbursementSchedule,
		arg.SubscriptionID,
		arg.Amount,
		arg.RoiPercentage,
		arg.Frequency,
		arg.NextDisbursement,
	)
	var i DisbursementSchedule
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Frequency,
		&i.NextDisbursement,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDisbursementSchedule = `-- name: GetDisbursementSchedule :one
SELECT id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
FROM disbursement_schedules
WHERE id = $1
`

func (q *Queries) GetDisbursementSchedule(ctx context.Context, id uuid.UUID) (DisbursementSchedule, error) {
	row := q.db.QueryRowContext(ctx, getDisbursementSchedule, id)
	var i DisbursementSchedule
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Frequency,
		&i.NextDisbursement,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDueDisbursementSchedules = `-- name: ListDueDisbursementSchedules :many
SELECT id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
FROM disbursement_schedules
WHERE active = true AND next_disbursement <= $1
ORDER BY next_disbursement
LIMIT $2
FOR UPDATE SKIP LOCKED
`

type ListDueDisbursementSchedulesParams struct {
	Now   time.Time `json:"now"`
	Limit int32     `json:"limit"`
}

func (q *Queries) ListDueDisbursementSchedules(ctx context.Context, arg ListDueDisbursementSchedulesParams) ([]DisbursementSchedule, error) {
	rows, err := q.db.QueryContext(ctx, listDueDisbursementSchedules, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DisbursementSchedule
	for rows.Next() {
		var i DisbursementSchedule
		if err := rows.Scan(
			&i.ID,
			&i.SubscriptionID,
			&i.Amount,
			&i.RoiPercentage,
			&i.Frequency,
			&i.NextDisbursement,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const advanceDisbursementSchedule = `-- name: AdvanceDisbursementSchedule :one
UPDATE disbursement_schedules
SET next_disbursement = $2, updated_at = now()
WHERE id = $1
RETURNING id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
`

type AdvanceDisbursementScheduleParams struct {
	ID               uuid.UUID `json:"id"`
	NextDisbursement time.Time `json:"next_disbursement"`
}

func (q *Queries) AdvanceDisbursementSchedule(ctx context.Context, arg AdvanceDisbursementScheduleParams) (DisbursementSchedule, error) {
	row := q.db.QueryRowContext(ctx, advanceDisbursementSchedule, arg.ID, arg.NextDisbursement)
	var i DisbursementSchedule
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Frequency,
		&i.NextDisbursement,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setDisbursementScheduleActive = `-- name: SetDisbursementScheduleActive :one
UPDATE disbursement_schedules
SET active = $2, updated_at = now()
WHERE id = $1
RETURNING id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
`

type SetDisbursementScheduleActiveParams struct {
	ID     uuid.UUID `json:"id"`
	Active bool      `json:"active"`
}

func (q *Queries) SetDisbursementScheduleActive(ctx context.Context, arg SetDisbursementScheduleActiveParams) (DisbursementSchedule, error) {
	row := q.db.QueryRowContext(ctx, setDisbursementScheduleActive, arg.ID, arg.Active)
	var i DisbursementSchedule
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Frequency,
		&i.NextDisbursement,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listSchedulesBySubscription = `-- name: ListSchedulesBySubscription :many
SELECT id, subscription_id, amount, roi_percentage, frequency, next_disbursement, active, created_at, updated_at
FROM disbursement_schedules
WHERE subscription_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListSchedulesBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]DisbursementSchedule, error) {
	rows, err := q.db.QueryContext(ctx, listSchedulesBySubscription, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DisbursementSchedule
	for rows.Next() {
		var i DisbursementSchedule
		if err := rows.Scan(
			&i.ID,
			&i.SubscriptionID,
			&i.Amount,
			&i.RoiPercentage,
			&i.Frequency,
			&i.NextDisbursement,
			&i.Active,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const getNextScheduledDisbursement = `-- name: GetNextScheduledDisbursement :one
SELECT MIN(next_disbursement)::timestamptz AS next_disbursement
FROM disbursement_schedules
WHERE subscription_id = $1 AND active = true
`

func (q *Queries) GetNextScheduledDisbursement(ctx context.Context, subscriptionID uuid.UUID) (sql.NullTime, error) {
	row := q.db.QueryRowContext(ctx, getNextScheduledDisbursement, subscriptionID)
	var next_disbursement sql.NullTime
	err := row.Scan(&next_disbursement)
	return next_disbursement, err
}
