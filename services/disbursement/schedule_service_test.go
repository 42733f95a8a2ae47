package disbursement

import (
	"context"
	"testing"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(store *fakeStore) *ScheduleService {
	logger := testLogger()
	svc := NewDisbursementService(store, ledger.NewLedgerService(store, logger), nil, logger)
	return NewScheduleService(store, svc, logger)
}

func TestCreateScheduleValidation(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store)
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	_, err := scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequency("weekly"),
		NextDisbursement: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.Zero,
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: time.Now(),
	})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   uuid.New(),
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: time.Now(),
	})
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
}

func TestCreateScheduleRejectsCancelledSubscription(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store)

	sub := store.addSubscription(uuid.New(), 1, "100.00")
	sub.Status = db.SubscriptionStatusCancelled
	store.subscriptions[sub.ID] = sub

	_, err := scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: time.Now(),
	})
	assert.ErrorIs(t, err, ErrSubscriptionInactive)
}

func TestSweepProcessesDueSchedules(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store)

	account := store.addAccount(1, "0.00")
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	schedule, err := scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.RequireFromString("150.00"),
		RoiPercentage:    decimal.RequireFromString("1.25"),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	result, err := scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Completed: 1}, result)

	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("150.00")))

	advanced := store.schedules[schedule.ID]
	assert.True(t, advanced.NextDisbursement.After(now))

	// Nothing further is due, the same sweep must not pay twice.
	result, err = scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
	assert.True(t, store.accounts[account.ID].Balance.Equal(decimal.RequireFromString("150.00")))
}

func TestSweepSkipsPausedAndFutureSchedules(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store)

	store.addAccount(1, "0.00")
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	now := time.Now()
	paused, err := scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = scheduler.Pause(context.Background(), paused.ID)
	require.NoError(t, err)

	_, err = scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	result, err := scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)

	// Resuming makes the overdue schedule eligible again.
	_, err = scheduler.Resume(context.Background(), paused.ID)
	require.NoError(t, err)

	result, err = scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Completed: 1}, result)
}

func TestSweepAdvancesScheduleEvenWhenPayoutFails(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store)

	// No wallet account for the subscriber, so processing must fail.
	sub := store.addSubscription(uuid.New(), 1, "100.00")

	now := time.Now()
	schedule, err := scheduler.CreateSchedule(context.Background(), CreateScheduleInput{
		SubscriptionID:   sub.ID,
		Amount:           decimal.NewFromInt(100),
		Frequency:        db.ScheduleFrequencyMonthly,
		NextDisbursement: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	result, err := scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Due: 1, Failed: 1}, result)

	// The failed disbursement stays behind for Retry instead of being
	// minted again on the next sweep.
	assert.True(t, store.schedules[schedule.ID].NextDisbursement.After(now))

	result, err = scheduler.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)

	var failed int
	for _, d := range store.disbursements {
		if d.Status == db.DisbursementStatusFailed {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestNextRunClampsToMonthEnd(t *testing.T) {
	cases := []struct {
		name      string
		from      time.Time
		frequency db.ScheduleFrequency
		want      time.Time
	}{
		{
			name:      "plain monthly",
			from:      time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
			frequency: db.ScheduleFrequencyMonthly,
			want:      time.Date(2024, 4, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "jan 31 to leap february",
			from:      time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			frequency: db.ScheduleFrequencyMonthly,
			want:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "jan 31 to short february",
			from:      time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC),
			frequency: db.ScheduleFrequencyMonthly,
			want:      time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "quarterly across year end",
			from:      time.Date(2024, 11, 30, 12, 30, 0, 0, time.UTC),
			frequency: db.ScheduleFrequencyQuarterly,
			want:      time.Date(2025, 2, 28, 12, 30, 0, 0, time.UTC),
		},
		{
			name:      "annual from leap day",
			from:      time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			frequency: db.ScheduleFrequencyAnnually,
			want:      time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextRun(tc.from, tc.frequency))
		})
	}
}

func TestPauseUnknownSchedule(t *testing.T) {
	scheduler := newTestScheduler(newFakeStore())
	_, err := scheduler.Pause(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
