package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createDisbursement = `-- name: CreateDisbursement :one
INSERT INTO disbursements (subscription_id, distribution_id, amount, roi_percentage, scheduled_for)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
`

type CreateDisbursementParams struct {
	SubscriptionID uuid.UUID       `json:"subscription_id"`
	DistributionID uuid.UUID       `json:"distribution_id"`
	Amount         decimal.Decimal `json:"amount"`
	RoiPercentage  decimal.Decimal `json:"roi_percentage"`
	ScheduledFor   time.Time       `json:"scheduled_for"`
}

func (q *Queries) CreateDisbursement(ctx context.Context, arg CreateDisbursementParams) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, createDisbursement,
		arg.SubscriptionID,
		arg.DistributionID,
		arg.Amount,
		arg.RoiPercentage,
		arg.ScheduledFor,
	)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDisbursement = `-- name: GetDisbursement :one
SELECT id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
FROM disbursements
WHERE id = $1
`

func (q *Queries) GetDisbursement(ctx context.Context, id uuid.UUID) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, getDisbursement, id)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDisbursementByDistributionAndSubscription = `-- name: GetDisbursementByDistributionAndSubscription :one
SELECT id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
FROM disbursements
WHERE distribution_id = $1 AND subscription_id = $2
`

type GetDisbursementByDistributionAndSubscriptionParams struct {
	DistributionID uuid.UUID `json:"distribution_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
}

func (q *Queries) GetDisbursementByDistributionAndSubscription(ctx context.Context, arg GetDisbursementByDistributionAndSubscriptionParams) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, getDisbursementByDistributionAndSubscription, arg.DistributionID, arg.SubscriptionID)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getDisbursementForUpdate = `-- name: GetDisbursementForUpdate :one
SELECT id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
FROM disbursements
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetDisbursementForUpdate(ctx context.Context, id uuid.UUID) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, getDisbursementForUpdate, id)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const markDisbursementProcessing = `-- name: MarkDisbursementProcessing :one
UPDATE disbursements
SET status = 'processing', updated_at = now()
WHERE id = $1 AND status = 'pending'
RETURNING id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
`

func (q *Queries) MarkDisbursementProcessing(ctx context.Context, id uuid.UUID) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, markDisbursementProcessing, id)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const markDisbursementCompleted = `-- name: MarkDisbursementCompleted :one
UPDATE disbursements
SET status = 'completed', transaction_id = $2, processed_at = now(), updated_at = now()
WHERE id = $1 AND status = 'processing'
RETURNING id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
`

type MarkDisbursementCompletedParams struct {
	ID            uuid.UUID     `json:"id"`
	TransactionID uuid.NullUUID `json:"transaction_id"`
}

func (q *Queries) MarkDisbursementCompleted(ctx context.Context, arg MarkDisbursementCompletedParams) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, markDisbursementCompleted, arg.ID, arg.TransactionID)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const markDisbursementFailed = `-- name: MarkDisbursementFailed :one
UPDATE disbursements
SET status = 'failed', failure_reason = $2, updated_at = now()
WHERE id = $1
RETURNING id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
`

type MarkDisbursementFailedParams struct {
	ID            uuid.UUID      `json:"id"`
	FailureReason sql.NullString `json:"failure_reason"`
}

func (q *Queries) MarkDisbursementFailed(ctx context.Context, arg MarkDisbursementFailedParams) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, markDisbursementFailed, arg.ID, arg.FailureReason)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const resetDisbursementForRetry = `-- name: ResetDisbursementForRetry :one
UPDATE disbursements
SET status = 'pending', failure_reason = NULL, updated_at = now()
WHERE id = $1 AND status = 'failed'
RETURNING id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
`

func (q *Queries) ResetDisbursementForRetry(ctx context.Context, id uuid.UUID) (Disbursement, error) {
	row := q.db.QueryRowContext(ctx, resetDisbursementForRetry, id)
	var i Disbursement
	err := row.Scan(
		&i.ID,
		&i.SubscriptionID,
		&i.DistributionID,
		&i.Amount,
		&i.RoiPercentage,
		&i.Status,
		&i.TransactionID,
		&i.TxHash,
		&i.FailureReason,
		&i.ScheduledFor,
		&i.ProcessedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listDisbursementsByDistribution = `-- name: ListDisbursementsByDistribution :many
SELECT id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
FROM disbursements
WHERE distribution_id = $1
ORDER BY created_at
`

func (q *Queries) ListDisbursementsByDistribution(ctx context.Context, distributionID uuid.UUID) ([]Disbursement, error) {
	rows, err := q.db.QueryContext(ctx, listDisbursementsByDistribution, distributionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Disbursement
	for rows.Next() {
		var i Disbursement
		if err := rows.Scan(
			&i.ID,
			&i.SubscriptionID,
			&i.DistributionID,
			&i.Amount,
			&i.RoiPercentage,
			&i.Status,
			&i.TransactionID,
			&i.TxHash,
			&i.FailureReason,
			&i.ScheduledFor,
			&i.ProcessedAt,
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

const listDisbursementsBySubscription = `-- name: ListDisbursementsBySubscription :many
SELECT id, subscription_id, distribution_id, amount, roi_percentage, status, transaction_id, tx_hash, failure_reason, scheduled_for, processed_at, created_at, updated_at
FROM disbursements
WHERE subscription_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListDisbursementsBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]Disbursement, error) {
	rows, err := q.db.QueryContext(ctx, listDisbursementsBySubscription, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Disbursement
	for rows.Next() {
		var i Disbursement
		if err := rows.Scan(
			&i.ID,
			&i.SubscriptionID,
			&i.DistributionID,
			&i.Amount,
			&i.RoiPercentage,
			&i.Status,
			&i.TransactionID,
			&i.TxHash,
			&i.FailureReason,
			&i.ScheduledFor,
			&i.ProcessedAt,
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

const getDisbursementStatsByProperty = `-- name: GetDisbursementStatsByProperty :one
SELECT
    COALESCE(SUM(d.amount) FILTER (WHERE d.status = 'completed'), 0)::numeric AS total_disbursed,
    COALESCE(AVG(d.amount) FILTER (WHERE d.status = 'completed'), 0)::numeric AS average_amount,
    COUNT(*) FILTER (WHERE d.status = 'completed') AS completed_count,
    COUNT(*) FILTER (WHERE d.status = 'failed') AS failed_count
FROM disbursements d
JOIN subscriptions s ON s.id = d.subscription_id
WHERE s.property_id = $1
`

type GetDisbursementStatsByPropertyRow struct {
	TotalDisbursed decimal.Decimal `json:"total_disbursed"`
	AverageAmount  decimal.Decimal `json:"average_amount"`
	CompletedCount int64           `json:"completed_count"`
	FailedCount    int64           `json:"failed_count"`
}

func (q *Queries) GetDisbursementStatsByProperty(ctx context.Context, propertyID uuid.UUID) (GetDisbursementStatsByPropertyRow, error) {
	row := q.db.QueryRowContext(ctx, getDisbursementStatsByProperty, propertyID)
	var i GetDisbursementStatsByPropertyRow
	err := row.Scan(
		&i.TotalDisbursed,
		&i.AverageAmount,
		&i.CompletedCount,
		&i.FailedCount,
	)
	return i, err
}
