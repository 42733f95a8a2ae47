package db

import (
	"context"
	"database/sql"
	"fmt"
)

type Store struct {
	*Queries
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:      db,
		Queries: New(db),
	}
}

// ExecTx runs fn inside a database transaction. Row locks taken by fn
// (FOR UPDATE selects) are held until commit or rollback.
func (s *Store) ExecTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fn(q)

	if err != nil {
		if txErr := tx.Rollback(); txErr != nil && txErr != sql.ErrTxDone {
			return fmt.Errorf("encountered rollback error: %v", txErr)
		}
		return err
	}

	return tx.Commit()
}
