package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createSubscription = `-- name: CreateSubscription :one
INSERT INTO subscriptions (property_id, user_id, wallet_address, amount, share_percentage, kyc_verified)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
`

type CreateSubscriptionParams struct {
	PropertyID      uuid.UUID       `json:"property_id"`
	UserID          int64           `json:"user_id"`
	WalletAddress   string          `json:"wallet_address"`
	Amount          decimal.Decimal `json:"amount"`
	SharePercentage decimal.Decimal `json:"share_percentage"`
	KycVerified     bool            `json:"kyc_verified"`
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, createSubscription,
		arg.PropertyID,
		arg.UserID,
		arg.WalletAddress,
		arg.Amount,
		arg.SharePercentage,
		arg.KycVerified,
	)
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.PropertyID,
		&i.UserID,
		&i.WalletAddress,
		&i.Amount,
		&i.SharePercentage,
		&i.Status,
		&i.KycVerified,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSubscription = `-- name: GetSubscription :one
SELECT id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
FROM subscriptions
WHERE id = $1
`

func (q *Queries) GetSubscription(ctx context.Context, id uuid.UUID) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, getSubscription, id)
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.PropertyID,
		&i.UserID,
		&i.WalletAddress,
		&i.Amount,
		&i.SharePercentage,
		&i.Status,
		&i.KycVerified,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listActiveSubscriptionsByProperty = `-- name: ListActiveSubscriptionsByProperty :many
SELECT id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
FROM subscriptions
WHERE property_id = $1 AND status = 'active'
ORDER BY created_at
`

func (q *Queries) ListActiveSubscriptionsByProperty(ctx context.Context, propertyID uuid.UUID) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, listActiveSubscriptionsByProperty, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		var i Subscription
		if err := rows.Scan(
			&i.ID,
			&i.PropertyID,
			&i.UserID,
			&i.WalletAddress,
			&i.Amount,
			&i.SharePercentage,
			&i.Status,
			&i.KycVerified,
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

const listSubscriptionsByUser = `-- name: ListSubscriptionsByUser :many
SELECT id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
FROM subscriptions
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListSubscriptionsByUser(ctx context.Context, userID int64) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, listSubscriptionsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		var i Subscription
		if err := rows.Scan(
			&i.ID,
			&i.PropertyID,
			&i.UserID,
			&i.WalletAddress,
			&i.Amount,
			&i.SharePercentage,
			&i.Status,
			&i.KycVerified,
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

const cancelSubscription = `-- name: CancelSubscription :one
UPDATE subscriptions
SET status = 'cancelled', updated_at = now()
WHERE id = $1 AND status = 'active'
RETURNING id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
`

func (q *Queries) CancelSubscription(ctx context.Context, id uuid.UUID) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, cancelSubscription, id)
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.PropertyID,
		&i.UserID,
		&i.WalletAddress,
		&i.Amount,
		&i.SharePercentage,
		&i.Status,
		&i.KycVerified,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const setSubscriptionKycVerified = `-- name: SetSubscriptionKycVerified :one
UPDATE subscriptions
SET kyc_verified = $2, updated_at = now()
WHERE id = $1
RETURNING id, property_id, user_id, wallet_address, amount, share_percentage, status, kyc_verified, created_at, updated_at
`

type SetSubscriptionKycVerifiedParams struct {
	ID          uuid.UUID `json:"id"`
	KycVerified bool      `json:"kyc_verified"`
}

func (q *Queries) SetSubscriptionKycVerified(ctx context.Context, arg SetSubscriptionKycVerifiedParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, setSubscriptionKycVerified, arg.ID, arg.KycVerified)
	var i Subscription
	err := row.Scan(
		&i.ID,
		&i.PropertyID,
		&i.UserID,
		&i.WalletAddress,
		&i.Amount,
		&i.SharePercentage,
		&i.Status,
		&i.KycVerified,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
