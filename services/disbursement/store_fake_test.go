package disbursement

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testLogger() *logging.Logger {
	return &logging.Logger{Logger: logrus.New()}
}

// fakeStore is an in-memory stand-in for db.Store. ExecTx snapshots the
// state up front and restores it when the closure fails, which is what
// the rollback tests lean on. Methods the services never touch fall
// through to the embedded nil Querier and panic loudly.
type fakeStore struct {
	db.Querier

	accounts      map[uuid.UUID]db.WalletAccount
	accountByUser map[int64]uuid.UUID
	transactions  []db.WalletTransaction
	subscriptions map[uuid.UUID]db.Subscription
	disbursements map[uuid.UUID]db.Disbursement
	schedules     map[uuid.UUID]db.DisbursementSchedule

	// createTransactionErr makes the next ledger write fail, simulating
	// a constraint violation mid-transaction.
	createTransactionErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:      make(map[uuid.UUID]db.WalletAccount),
		accountByUser: make(map[int64]uuid.UUID),
		subscriptions: make(map[uuid.UUID]db.Subscription),
		disbursements: make(map[uuid.UUID]db.Disbursement),
		schedules:     make(map[uuid.UUID]db.DisbursementSchedule),
	}
}

type fakeSnapshot struct {
	accounts      map[uuid.UUID]db.WalletAccount
	disbursements map[uuid.UUID]db.Disbursement
	schedules     map[uuid.UUID]db.DisbursementSchedule
	transactions  int
}

func (f *fakeStore) ExecTx(ctx context.Context, fn func(q db.Querier) error) error {
	snap := fakeSnapshot{
		accounts:      make(map[uuid.UUID]db.WalletAccount, len(f.accounts)),
		disbursements: make(map[uuid.UUID]db.Disbursement, len(f.disbursements)),
		schedules:     make(map[uuid.UUID]db.DisbursementSchedule, len(f.schedules)),
		transactions:  len(f.transactions),
	}
	for k, v := range f.accounts {
		snap.accounts[k] = v
	}
	for k, v := range f.disbursements {
		snap.disbursements[k] = v
	}
	for k, v := range f.schedules {
		snap.schedules[k] = v
	}

	if err := fn(f); err != nil {
		f.accounts = snap.accounts
		f.disbursements = snap.disbursements
		f.schedules = snap.schedules
		f.transactions = f.transactions[:snap.transactions]
		return err
	}
	return nil
}

func (f *fakeStore) addAccount(userID int64, balance string) db.WalletAccount {
	account := db.WalletAccount{
		ID:                 uuid.New(),
		UserID:             userID,
		ChainAddress:       fmt.Sprintf("0xholder%d", userID),
		Balance:            decimal.RequireFromString(balance),
		VerificationStatus: db.VerificationStatusVerified,
		CreatedAt:          time.Now(),
	}
	f.accounts[account.ID] = account
	f.accountByUser[userID] = account.ID
	return account
}

func (f *fakeStore) addSubscription(propertyID uuid.UUID, userID int64, share string) db.Subscription {
	sub := db.Subscription{
		ID:              uuid.New(),
		PropertyID:      propertyID,
		UserID:          userID,
		WalletAddress:   fmt.Sprintf("0xholder%d", userID),
		Amount:          decimal.RequireFromString("5000.00"),
		SharePercentage: decimal.RequireFromString(share),
		Status:          db.SubscriptionStatusActive,
		KycVerified:     true,
		CreatedAt:       time.Now(),
	}
	f.subscriptions[sub.ID] = sub
	return sub
}

func (f *fakeStore) GetSubscription(ctx context.Context, id uuid.UUID) (db.Subscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return db.Subscription{}, sql.ErrNoRows
	}
	return sub, nil
}

func (f *fakeStore) ListActiveSubscriptionsByProperty(ctx context.Context, propertyID uuid.UUID) ([]db.Subscription, error) {
	var subs []db.Subscription
	for _, sub := range f.subscriptions {
		if sub.PropertyID == propertyID && sub.Status == db.SubscriptionStatusActive {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID.String() < subs[j].ID.String() })
	return subs, nil
}

func (f *fakeStore) GetWalletAccountByUserID(ctx context.Context, userID int64) (db.WalletAccount, error) {
	id, ok := f.accountByUser[userID]
	if !ok {
		return db.WalletAccount{}, sql.ErrNoRows
	}
	return f.accounts[id], nil
}

func (f *fakeStore) GetWalletAccountForUpdate(ctx context.Context, id uuid.UUID) (db.WalletAccount, error) {
	account, ok := f.accounts[id]
	if !ok {
		return db.WalletAccount{}, sql.ErrNoRows
	}
	return account, nil
}

func (f *fakeStore) UpdateWalletAccountBalance(ctx context.Context, arg db.UpdateWalletAccountBalanceParams) (db.WalletAccount, error) {
	account, ok := f.accounts[arg.ID]
	if !ok {
		return db.WalletAccount{}, sql.ErrNoRows
	}
	account.Balance = arg.Balance
	f.accounts[arg.ID] = account
	return account, nil
}

func (f *fakeStore) CreateWalletTransaction(ctx context.Context, arg db.CreateWalletTransactionParams) (db.WalletTransaction, error) {
	if f.createTransactionErr != nil {
		return db.WalletTransaction{}, f.createTransactionErr
	}
	if arg.DisbursementID.Valid {
		for _, tx := range f.transactions {
			if tx.DisbursementID.Valid && tx.DisbursementID.UUID == arg.DisbursementID.UUID {
				return db.WalletTransaction{}, &pq.Error{Code: db.DuplicateEntry}
			}
		}
	}
	tx := db.WalletTransaction{
		ID:             uuid.New(),
		AccountID:      arg.AccountID,
		Type:           arg.Type,
		Amount:         arg.Amount,
		BalanceBefore:  arg.BalanceBefore,
		BalanceAfter:   arg.BalanceAfter,
		FromAddress:    arg.FromAddress,
		ToAddress:      arg.ToAddress,
		Status:         arg.Status,
		Reference:      arg.Reference,
		DisbursementID: arg.DisbursementID,
		TxHash:         arg.TxHash,
		Metadata:       arg.Metadata,
		CreatedAt:      time.Now(),
	}
	f.transactions = append(f.transactions, tx)
	return tx, nil
}

func (f *fakeStore) CreateDisbursement(ctx context.Context, arg db.CreateDisbursementParams) (db.Disbursement, error) {
	for _, d := range f.disbursements {
		if d.SubscriptionID == arg.SubscriptionID && d.DistributionID == arg.DistributionID {
			return db.Disbursement{}, &pq.Error{Code: db.DuplicateEntry}
		}
	}
	d := db.Disbursement{
		ID:             uuid.New(),
		SubscriptionID: arg.SubscriptionID,
		DistributionID: arg.DistributionID,
		Amount:         arg.Amount,
		RoiPercentage:  arg.RoiPercentage,
		Status:         db.DisbursementStatusPending,
		ScheduledFor:   arg.ScheduledFor,
		CreatedAt:      time.Now(),
	}
	f.disbursements[d.ID] = d
	return d, nil
}

func (f *fakeStore) GetDisbursementByDistributionAndSubscription(ctx context.Context, arg db.GetDisbursementByDistributionAndSubscriptionParams) (db.Disbursement, error) {
	for _, d := range f.disbursements {
		if d.DistributionID == arg.DistributionID && d.SubscriptionID == arg.SubscriptionID {
			return d, nil
		}
	}
	return db.Disbursement{}, sql.ErrNoRows
}

func (f *fakeStore) GetDisbursement(ctx context.Context, id uuid.UUID) (db.Disbursement, error) {
	d, ok := f.disbursements[id]
	if !ok {
		return db.Disbursement{}, sql.ErrNoRows
	}
	return d, nil
}

func (f *fakeStore) GetDisbursementForUpdate(ctx context.Context, id uuid.UUID) (db.Disbursement, error) {
	return f.GetDisbursement(ctx, id)
}

func (f *fakeStore) MarkDisbursementProcessing(ctx context.Context, id uuid.UUID) (db.Disbursement, error) {
	d, ok := f.disbursements[id]
	if !ok || d.Status != db.DisbursementStatusPending {
		return db.Disbursement{}, sql.ErrNoRows
	}
	d.Status = db.DisbursementStatusProcessing
	f.disbursements[id] = d
	return d, nil
}

func (f *fakeStore) MarkDisbursementCompleted(ctx context.Context, arg db.MarkDisbursementCompletedParams) (db.Disbursement, error) {
	d, ok := f.disbursements[arg.ID]
	if !ok || d.Status != db.DisbursementStatusProcessing {
		return db.Disbursement{}, sql.ErrNoRows
	}
	d.Status = db.DisbursementStatusCompleted
	d.TransactionID = arg.TransactionID
	d.ProcessedAt = sql.NullTime{Time: time.Now(), Valid: true}
	f.disbursements[arg.ID] = d
	return d, nil
}

func (f *fakeStore) MarkDisbursementFailed(ctx context.Context, arg db.MarkDisbursementFailedParams) (db.Disbursement, error) {
	d, ok := f.disbursements[arg.ID]
	if !ok {
		return db.Disbursement{}, sql.ErrNoRows
	}
	d.Status = db.DisbursementStatusFailed
	d.FailureReason = arg.FailureReason
	f.disbursements[arg.ID] = d
	return d, nil
}

func (f *fakeStore) ResetDisbursementForRetry(ctx context.Context, id uuid.UUID) (db.Disbursement, error) {
	d, ok := f.disbursements[id]
	if !ok || d.Status != db.DisbursementStatusFailed {
		return db.Disbursement{}, sql.ErrNoRows
	}
	d.Status = db.DisbursementStatusPending
	d.FailureReason = sql.NullString{}
	f.disbursements[id] = d
	return d, nil
}

func (f *fakeStore) CreateDisbursementSchedule(ctx context.Context, arg db.CreateDisbursementScheduleParams) (db.DisbursementSchedule, error) {
	schedule := db.DisbursementSchedule{
		ID:               uuid.New(),
		SubscriptionID:   arg.SubscriptionID,
		Amount:           arg.Amount,
		RoiPercentage:    arg.RoiPercentage,
		Frequency:        arg.Frequency,
		NextDisbursement: arg.NextDisbursement,
		Active:           true,
		CreatedAt:        time.Now(),
	}
	f.schedules[schedule.ID] = schedule
	return schedule, nil
}

func (f *fakeStore) GetDisbursementSchedule(ctx context.Context, id uuid.UUID) (db.DisbursementSchedule, error) {
	schedule, ok := f.schedules[id]
	if !ok {
		return db.DisbursementSchedule{}, sql.ErrNoRows
	}
	return schedule, nil
}

func (f *fakeStore) SetDisbursementScheduleActive(ctx context.Context, arg db.SetDisbursementScheduleActiveParams) (db.DisbursementSchedule, error) {
	schedule, ok := f.schedules[arg.ID]
	if !ok {
		return db.DisbursementSchedule{}, sql.ErrNoRows
	}
	schedule.Active = arg.Active
	f.schedules[arg.ID] = schedule
	return schedule, nil
}

func (f *fakeStore) ListDueDisbursementSchedules(ctx context.Context, arg db.ListDueDisbursementSchedulesParams) ([]db.DisbursementSchedule, error) {
	var due []db.DisbursementSchedule
	for _, schedule := range f.schedules {
		if schedule.Active && !schedule.NextDisbursement.After(arg.Now) {
			due = append(due, schedule)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NextDisbursement.Before(due[j].NextDisbursement) })
	if len(due) > int(arg.Limit) {
		due = due[:arg.Limit]
	}
	return due, nil
}

func (f *fakeStore) AdvanceDisbursementSchedule(ctx context.Context, arg db.AdvanceDisbursementScheduleParams) (db.DisbursementSchedule, error) {
	schedule, ok := f.schedules[arg.ID]
	if !ok {
		return db.DisbursementSchedule{}, sql.ErrNoRows
	}
	schedule.NextDisbursement = arg.NextDisbursement
	f.schedules[arg.ID] = schedule
	return schedule, nil
}
