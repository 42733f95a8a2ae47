package disbursement

import (
	"context"
	"errors"
	"testing"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/allocation"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(store *fakeStore) *DisbursementService {
	logger := testLogger()
	return NewDisbursementService(store, ledger.NewLedgerService(store, logger), nil, logger)
}

func TestProcessCreditsWalletAndCompletes(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	account := store.addAccount(1, "100.00")
	sub := store.addSubscription(uuid.New(), 1, "60.00")

	d, err := svc.Create(context.Background(), sub.ID, uuid.New(), decimal.RequireFromString("600.00"), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), d.ID))

	got := store.disbursements[d.ID]
	assert.Equal(t, db.DisbursementStatusCompleted, got.Status)
	assert.True(t, got.TransactionID.Valid)
	assert.True(t, got.ProcessedAt.Valid)

	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("700.00")))

	require.Len(t, store.transactions, 1)
	tx := store.transactions[0]
	assert.Equal(t, db.TransactionTypeRoiDisbursement, tx.Type)
	assert.Equal(t, got.TransactionID.UUID, tx.ID)
	assert.True(t, tx.DisbursementID.Valid)
	assert.Equal(t, d.ID, tx.DisbursementID.UUID)
	assert.True(t, tx.BalanceBefore.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, tx.BalanceAfter.Equal(decimal.RequireFromString("700.00")))
}

func TestProcessIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	account := store.addAccount(1, "0.00")
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	d, err := svc.Create(context.Background(), sub.ID, uuid.New(), decimal.RequireFromString("250.00"), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), d.ID))
	require.NoError(t, svc.Process(context.Background(), d.ID))
	require.NoError(t, svc.Process(context.Background(), d.ID))

	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("250.00")))
	assert.Len(t, store.transactions, 1)
}

func TestCreateRejectsDuplicatePair(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sub := store.addSubscription(uuid.New(), 1, "100.00")
	distributionID := uuid.New()

	_, err := svc.Create(context.Background(), sub.ID, distributionID, decimal.NewFromInt(100), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), sub.ID, distributionID, decimal.NewFromInt(100), sub.SharePercentage, time.Now())
	assert.ErrorIs(t, err, ErrDuplicateDisbursement)
}

func TestProcessFailureRollsBackCredit(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	account := store.addAccount(1, "100.00")
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	d, err := svc.Create(context.Background(), sub.ID, uuid.New(), decimal.RequireFromString("600.00"), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	store.createTransactionErr = errors.New("ledger write refused")
	err = svc.Process(context.Background(), d.ID)
	require.Error(t, err)

	got := store.disbursements[d.ID]
	assert.Equal(t, db.DisbursementStatusFailed, got.Status)
	assert.Contains(t, got.FailureReason.String, "ledger write refused")

	// The rolled back credit must leave no trace.
	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("100.00")))
	assert.Empty(t, store.transactions)
}

func TestRetryReprocessesFailedDisbursement(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	account := store.addAccount(1, "0.00")
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	d, err := svc.Create(context.Background(), sub.ID, uuid.New(), decimal.RequireFromString("300.00"), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	store.createTransactionErr = errors.New("ledger write refused")
	require.Error(t, svc.Process(context.Background(), d.ID))
	require.Equal(t, db.DisbursementStatusFailed, store.disbursements[d.ID].Status)

	store.createTransactionErr = nil
	require.NoError(t, svc.Retry(context.Background(), d.ID))

	got := store.disbursements[d.ID]
	assert.Equal(t, db.DisbursementStatusCompleted, got.Status)
	assert.False(t, got.FailureReason.Valid)
	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("300.00")))

	// Completed rows are not retryable.
	assert.ErrorIs(t, svc.Retry(context.Background(), d.ID), ErrInvalidState)
}

func TestRetryRefusesPendingDisbursement(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sub := store.addSubscription(uuid.New(), 1, "100.00")
	d, err := svc.Create(context.Background(), sub.ID, uuid.New(), decimal.NewFromInt(50), sub.SharePercentage, time.Now())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Retry(context.Background(), d.ID), ErrInvalidState)
}

func TestProcessUnknownDisbursement(t *testing.T) {
	svc := newTestService(newFakeStore())
	assert.ErrorIs(t, svc.Process(context.Background(), uuid.New()), ErrNotFound)
}

func TestDistributeSplitsProportionally(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	propertyID := uuid.New()
	alice := store.addAccount(1, "0.00")
	bob := store.addAccount(2, "0.00")
	store.addSubscription(propertyID, 1, "60.00")
	store.addSubscription(propertyID, 2, "40.00")

	result, err := svc.Distribute(context.Background(), propertyID, uuid.New(), decimal.RequireFromString("1000.00"), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Completed)
	assert.Equal(t, 0, result.Failed)

	assert.True(t, store.accounts[alice.ID].Balance.Equal(decimal.RequireFromString("600.00")),
		"60%% holder got %s", store.accounts[alice.ID].Balance)
	assert.True(t, store.accounts[bob.ID].Balance.Equal(decimal.RequireFromString("400.00")),
		"40%% holder got %s", store.accounts[bob.ID].Balance)

	var total decimal.Decimal
	for _, d := range result.Disbursements {
		assert.Equal(t, db.DisbursementStatusCompleted, d.Status)
		total = total.Add(d.Amount)
	}
	assert.True(t, total.Equal(decimal.RequireFromString("1000.00")))
}

func TestDistributeIsIdempotentPerDistribution(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	propertyID := uuid.New()
	account := store.addAccount(1, "0.00")
	store.addSubscription(propertyID, 1, "100.00")

	distributionID := uuid.New()
	total := decimal.RequireFromString("500.00")

	first, err := svc.Distribute(context.Background(), propertyID, distributionID, total, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := svc.Distribute(context.Background(), propertyID, distributionID, total, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)

	assert.True(t, store.accounts[account.ID].Balance.Equal(total))
	assert.Len(t, store.transactions, 1)
}

func TestDistributePaysPreexistingPendingDisbursement(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	propertyID := uuid.New()
	account := store.addAccount(1, "0.00")
	sub := store.addSubscription(propertyID, 1, "100.00")

	// A record created by a run that died before it could process.
	distributionID := uuid.New()
	stranded, err := svc.Create(context.Background(), sub.ID, distributionID, decimal.RequireFromString("500.00"), decimal.RequireFromString("100.00"), time.Now())
	require.NoError(t, err)
	require.Equal(t, db.DisbursementStatusPending, stranded.Status)

	result, err := svc.Distribute(context.Background(), propertyID, distributionID, decimal.RequireFromString("500.00"), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Completed)

	paid := store.disbursements[stranded.ID]
	assert.Equal(t, db.DisbursementStatusCompleted, paid.Status)
	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("500.00")))
	assert.Len(t, store.transactions, 1)
}

func TestDistributeNoActiveSubscribers(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Distribute(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(1000), time.Now())
	assert.ErrorIs(t, err, allocation.ErrNoActiveSubscribers)
}

func TestDistributeContinuesAfterSubscriberFailure(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	propertyID := uuid.New()
	healthy := store.addAccount(1, "0.00")
	store.addSubscription(propertyID, 1, "50.00")
	// Subscriber 2 has no wallet account, so their payout must fail
	// without stopping subscriber 1's.
	store.addSubscription(propertyID, 2, "50.00")

	result, err := svc.Distribute(context.Background(), propertyID, uuid.New(), decimal.RequireFromString("800.00"), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, store.accounts[healthy.ID].Balance.Equal(decimal.RequireFromString("400.00")))

	var failed int
	for _, d := range store.disbursements {
		if d.Status == db.DisbursementStatusFailed {
			failed++
			assert.True(t, d.FailureReason.Valid)
		}
	}
	assert.Equal(t, 1, failed)
}
