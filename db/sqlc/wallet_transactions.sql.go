package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

const createWalletTransaction = `-- name: CreateWalletTransaction :one
INSERT INTO wallet_transactions (
    account_id, type, amount, balance_before, balance_after,
    from_address, to_address, status, reference, disbursement_id, tx_hash, metadata
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, account_id, type, amount, balance_before, balance_after, from_address, to_address, status, reference, disbursement_id, tx_hash, metadata, created_at
`

type CreateWalletTransactionParams struct {
	AccountID      uuid.UUID             `json:"account_id"`
	Type           TransactionType       `json:"type"`
	Amount         decimal.Decimal       `json:"amount"`
	BalanceBefore  decimal.Decimal       `json:"balance_before"`
	BalanceAfter   decimal.Decimal       `json:"balance_after"`
	FromAddress    sql.NullString        `json:"from_address"`
	ToAddress      sql.NullString        `json:"to_address"`
	Status         TransactionStatus     `json:"status"`
	Reference      string                `json:"reference"`
	DisbursementID uuid.NullUUID         `json:"disbursement_id"`
	TxHash         sql.NullString        `json:"tx_hash"`
	Metadata       pqtype.NullRawMessage `json:"metadata"`
}

func (q *Queries) CreateWalletTransaction(ctx context.Context, arg CreateWalletTransactionParams) (WalletTransaction, error) {
	row := q.db.QueryRowContext(ctx, createWalletTransaction,
		arg.AccountID,
		arg.Type,
		arg.Amount,
		arg.BalanceBefore,
		arg.BalanceAfter,
		arg.FromAddress,
		arg.ToAddress,
		arg.Status,
		arg.Reference,
		arg.DisbursementID,
		arg.TxHash,
		arg.Metadata,
	)
	var i WalletTransaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Amount,
		&i.BalanceBefore,
		&i.BalanceAfter,
		&i.FromAddress,
		&i.ToAddress,
		&i.Status,
		&i.Reference,
		&i.DisbursementID,
		&i.TxHash,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const getWalletTransaction = `-- name: GetWalletTransaction :one
SELECT id, account_id, type, amount, balance_before, balance_after, from_address, to_address, status, reference, disbursement_id, tx_hash, metadata, created_at
FROM wallet_transactions
WHERE id = $1
`

func (q *Queries) GetWalletTransaction(ctx context.Context, id uuid.UUID) (WalletTransaction, error) {
	row := q.db.QueryRowContext(ctx, getWalletTransaction, id)
	var i WalletTransaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Amount,
		&i.BalanceBefore,
		&i.BalanceAfter,
		&i.FromAddress,
		&i.ToAddress,
		&i.Status,
		&i.Reference,
		&i.DisbursementID,
		&i.TxHash,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const getWalletTransactionByDisbursementID = `-- name: GetWalletTransactionByDisbursementID :one
SELECT id, account_id, type, amount, balance_before, balance_after, from_address, to_address, status, reference, disbursement_id, tx_hash, metadata, created_at
FROM wallet_transactions
WHERE disbursement_id = $1
`

func (q *Queries) GetWalletTransactionByDisbursementID(ctx context.Context, disbursementID uuid.NullUUID) (WalletTransaction, error) {
	row := q.db.QueryRowContext(ctx, getWalletTransactionByDisbursementID, disbursementID)
	var i WalletTransaction
	err := row.Scan(
		&i.ID,
		&i.AccountID,
		&i.Type,
		&i.Amount,
		&i.BalanceBefore,
		&i.BalanceAfter,
		&i.FromAddress,
		&i.ToAddress,
		&i.Status,
		&i.Reference,
		&i.DisbursementID,
		&i.TxHash,
		&i.Metadata,
		&i.CreatedAt,
	)
	return i, err
}

const listWalletTransactionsByAccount = `-- name: ListWalletTransactionsByAccount :many
SELECT id, account_id, type, amount, balance_before, balance_after, from_address, to_address, status, reference, disbursement_id, tx_hash, metadata, created_at
FROM wallet_transactions
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type ListWalletTransactionsByAccountParams struct {
	AccountID uuid.UUID `json:"account_id"`
	Limit     int32     `json:"limit"`
	Offset    int32     `json:"offset"`
}

func (q *Queries) ListWalletTransactionsByAccount(ctx context.Context, arg ListWalletTransactionsByAccountParams) ([]WalletTransaction, error) {
	rows, err := q.db.QueryContext(ctx, listWalletTransactionsByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WalletTransaction
	for rows.Next() {
		var i WalletTransaction
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Type,
			&i.Amount,
			&i.BalanceBefore,
			&i.BalanceAfter,
			&i.FromAddress,
			&i.ToAddress,
			&i.Status,
			&i.Reference,
			&i.DisbursementID,
			&i.TxHash,
			&i.Metadata,
			&i.CreatedAt,
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
