package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/BrickVest/BrickVest-Backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the slice of the query layer account management needs.
type Store interface {
	CreateWalletAccount(ctx context.Context, arg db.CreateWalletAccountParams) (db.WalletAccount, error)
	GetWalletAccount(ctx context.Context, id uuid.UUID) (db.WalletAccount, error)
	GetWalletAccountByUserID(ctx context.Context, userID int64) (db.WalletAccount, error)
}

// LedgerService owns wallet accounts and the append-only transaction
// log. Credit and Debit must be called with the Querier of an open
// database transaction: they lock the account row, write one
// wallet_transaction with balance-before/after and update the balance
// in the same atomic unit.
type LedgerService struct {
	store  Store
	logger *logging.Logger
}

func NewLedgerService(store Store, logger *logging.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		logger: logger,
	}
}

func (l *LedgerService) CreateAccount(ctx context.Context, userID int64, chainAddress string) (db.WalletAccount, error) {
	account, err := l.store.CreateWalletAccount(ctx, db.CreateWalletAccountParams{
		UserID:       userID,
		ChainAddress: chainAddress,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return db.WalletAccount{}, ErrAccountNotPossible
		}
		return db.WalletAccount{}, err
	}
	return account, nil
}

func (l *LedgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (db.WalletAccount, error) {
	account, err := l.store.GetWalletAccount(ctx, accountID)
	if err == sql.ErrNoRows {
		return db.WalletAccount{}, ErrAccountNotFound
	} else if err != nil {
		return db.WalletAccount{}, err
	}
	return account, nil
}

func (l *LedgerService) GetAccountByUserID(ctx context.Context, userID int64) (db.WalletAccount, error) {
	account, err := l.store.GetWalletAccountByUserID(ctx, userID)
	if err == sql.ErrNoRows {
		return db.WalletAccount{}, ErrAccountNotFound
	} else if err != nil {
		return db.WalletAccount{}, err
	}
	return account, nil
}

// Credit adds entry.Amount to the account inside the caller's
// transaction. The account row stays locked until the caller commits.
func (l *LedgerService) Credit(ctx context.Context, q db.Querier, accountID uuid.UUID, entry Entry) (db.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return db.WalletTransaction{}, fmt.Errorf("credit amount must be positive, got %s", entry.Amount)
	}

	account, err := q.GetWalletAccountForUpdate(ctx, accountID)
	if err == sql.ErrNoRows {
		return db.WalletTransaction{}, ErrAccountNotFound
	} else if err != nil {
		return db.WalletTransaction{}, err
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore.Add(entry.Amount)

	transaction, err := l.writeEntry(ctx, q, account, entry, balanceBefore, balanceAfter)
	if err != nil {
		return db.WalletTransaction{}, err
	}

	return transaction, nil
}

// Debit removes entry.Amount from the account inside the caller's
// transaction. Fails with ErrInsufficientFunds before writing anything.
func (l *LedgerService) Debit(ctx context.Context, q db.Querier, accountID uuid.UUID, entry Entry) (db.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return db.WalletTransaction{}, fmt.Errorf("debit amount must be positive, got %s", entry.Amount)
	}

	account, err := q.GetWalletAccountForUpdate(ctx, accountID)
	if err == sql.ErrNoRows {
		return db.WalletTransaction{}, ErrAccountNotFound
	} else if err != nil {
		return db.WalletTransaction{}, err
	}

	balanceBefore := account.Balance
	balanceAfter := balanceBefore.Sub(entry.Amount)
	if balanceAfter.IsNegative() {
		return db.WalletTransaction{}, ErrInsufficientFunds
	}

	transaction, err := l.writeEntry(ctx, q, account, entry, balanceBefore, balanceAfter)
	if err != nil {
		return db.WalletTransaction{}, err
	}

	return transaction, nil
}

func (l *LedgerService) writeEntry(ctx context.Context, q db.Querier, account db.WalletAccount, entry Entry, balanceBefore, balanceAfter decimal.Decimal) (db.WalletTransaction, error) {
	reference := entry.Reference
	if reference == "" {
		reference = utils.GenerateTransactionReference(time.Now())
	}

	transaction, err := q.CreateWalletTransaction(ctx, db.CreateWalletTransactionParams{
		AccountID:      account.ID,
		Type:           entry.Type,
		Amount:         entry.Amount,
		BalanceBefore:  balanceBefore,
		BalanceAfter:   balanceAfter,
		FromAddress:    nullString(entry.FromAddress),
		ToAddress:      nullString(entry.ToAddress),
		Status:         db.TransactionStatusCompleted,
		Reference:      reference,
		DisbursementID: entry.DisbursementID,
		TxHash:         nullString(entry.TxHash),
		Metadata:       entry.Metadata,
	})
	if err != nil {
		return db.WalletTransaction{}, fmt.Errorf("create ledger entry: %w", err)
	}

	if _, err := q.UpdateWalletAccountBalance(ctx, db.UpdateWalletAccountBalanceParams{
		ID:      account.ID,
		Balance: balanceAfter,
	}); err != nil {
		return db.WalletTransaction{}, fmt.Errorf("update account balance: %w", err)
	}

	l.logger.Info(fmt.Sprintf("ledger %s of %s on account %s (balance %s -> %s)",
		entry.Type, entry.Amount, account.ID, balanceBefore, balanceAfter))

	return transaction, nil
}
