package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const createWalletAccount = `-- name: CreateWalletAccount :one
INSERT INTO wallet_accounts (user_id, chain_address)
VALUES ($1, $2)
RETURNING id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
`

type CreateWalletAccountParams struct {
	UserID       int64  `json:"user_id"`
	ChainAddress string `json:"chain_address"`
}

func (q *Queries) CreateWalletAccount(ctx context.Context, arg CreateWalletAccountParams) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, createWalletAccount, arg.UserID, arg.ChainAddress)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletAccount = `-- name: GetWalletAccount :one
SELECT id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
FROM wallet_accounts
WHERE id = $1
`

func (q *Queries) GetWalletAccount(ctx context.Context, id uuid.UUID) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, getWalletAccount, id)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletAccountByUserID = `-- name: GetWalletAccountByUserID :one
SELECT id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
FROM wallet_accounts
WHERE user_id = $1
`

func (q *Queries) GetWalletAccountByUserID(ctx context.Context, userID int64) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, getWalletAccountByUserID, userID)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWalletAccountForUpdate = `-- name: GetWalletAccountForUpdate :one
SELECT id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
FROM wallet_accounts
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetWalletAccountForUpdate(ctx context.Context, id uuid.UUID) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, getWalletAccountForUpdate, id)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateWalletAccountBalance = `-- name: UpdateWalletAccountBalance :one
UPDATE wallet_accounts
SET balance = $2, updated_at = now()
WHERE id = $1
RETURNING id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
`

type UpdateWalletAccountBalanceParams struct {
	ID      uuid.UUID       `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}

func (q *Queries) UpdateWalletAccountBalance(ctx context.Context, arg UpdateWalletAccountBalanceParams) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, updateWalletAccountBalance, arg.ID, arg.Balance)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const incrementWalletAccountNonce = `-- name: IncrementWalletAccountNonce :one
UPDATE wallet_accounts
SET chain_nonce = chain_nonce + 1, updated_at = now()
WHERE id = $1
RETURNING chain_nonce
`

func (q *Queries) IncrementWalletAccountNonce(ctx context.Context, id uuid.UUID) (int64, error) {
	row := q.db.QueryRowContext(ctx, incrementWalletAccountNonce, id)
	var chain_nonce int64
	err := row.Scan(&chain_nonce)
	return chain_nonce, err
}

const updateWalletAccountVerification = `-- name: UpdateWalletAccountVerification :one
UPDATE wallet_accounts
SET verification_status = $2, updated_at = now()
WHERE id = $1
RETURNING id, user_id, chain_address, balance, chain_nonce, verification_status, created_at, updated_at
`

type UpdateWalletAccountVerificationParams struct {
	ID                 uuid.UUID          `json:"id"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

func (q *Queries) UpdateWalletAccountVerification(ctx context.Context, arg UpdateWalletAccountVerificationParams) (WalletAccount, error) {
	row := q.db.QueryRowContext(ctx, updateWalletAccountVerification, arg.ID, arg.VerificationStatus)
	var i WalletAccount
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.ChainAddress,
		&i.Balance,
		&i.ChainNonce,
		&i.VerificationStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
