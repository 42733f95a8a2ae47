package db

import (
	"context"
)

const insertConsumedNonce = `-- name: InsertConsumedNonce :one
INSERT INTO consumed_nonces (nonce, source_address)
VALUES ($1, $2)
RETURNING nonce, source_address, consumed_at
`

type InsertConsumedNonceParams struct {
	Nonce         string `json:"nonce"`
	SourceAddress string `json:"source_address"`
}

func (q *Queries) InsertConsumedNonce(ctx context.Context, arg InsertConsumedNonceParams) (ConsumedNonce, error) {
	row := q.db.QueryRowContext(ctx, insertConsumedNonce, arg.Nonce, arg.SourceAddress)
	var i ConsumedNonce
	err := row.Scan(&i.Nonce, &i.SourceAddress, &i.ConsumedAt)
	return i, err
}

const nonceConsumed = `-- name: NonceConsumed :one
SELECT EXISTS (
    SELECT 1 FROM consumed_nonces WHERE nonce = $1
) AS consumed
`

func (q *Queries) NonceConsumed(ctx context.Context, nonce string) (bool, error) {
	row := q.db.QueryRowContext(ctx, nonceConsumed, nonce)
	var consumed bool
	err := row.Scan(&consumed)
	return consumed, err
}
