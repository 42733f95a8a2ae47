package disbursement

import (
	"context"
	"database/sql"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const sweepBatchSize = 100

// ScheduleService manages recurring payouts. The sweep claims due rows
// with FOR UPDATE SKIP LOCKED so that several engine instances can run
// it concurrently without creating duplicate disbursements.
type ScheduleService struct {
	store         Store
	disbursements *DisbursementService
	logger        *logging.Logger
}

func NewScheduleService(store Store, disbursements *DisbursementService, logger *logging.Logger) *ScheduleService {
	return &ScheduleService{
		store:         store,
		disbursements: disbursements,
		logger:        logger,
	}
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, input CreateScheduleInput) (db.DisbursementSchedule, error) {
	if !input.Amount.IsPositive() {
		return db.DisbursementSchedule{}, ErrInvalidAmount
	}
	switch input.Frequency {
	case db.ScheduleFrequencyMonthly, db.ScheduleFrequencyQuarterly, db.ScheduleFrequencyAnnually:
	default:
		return db.DisbursementSchedule{}, ErrInvalidFrequency
	}

	subscription, err := s.store.GetSubscription(ctx, input.SubscriptionID)
	if err == sql.ErrNoRows {
		return db.DisbursementSchedule{}, ErrSubscriptionNotFound
	} else if err != nil {
		return db.DisbursementSchedule{}, err
	}
	if subscription.Status != db.SubscriptionStatusActive {
		return db.DisbursementSchedule{}, ErrSubscriptionInactive
	}

	return s.store.CreateDisbursementSchedule(ctx, db.CreateDisbursementScheduleParams{
		SubscriptionID:   input.SubscriptionID,
		Amount:           input.Amount,
		RoiPercentage:    input.RoiPercentage,
		Frequency:        input.Frequency,
		NextDisbursement: input.NextDisbursement,
	})
}

func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (db.DisbursementSchedule, error) {
	schedule, err := s.store.GetDisbursementSchedule(ctx, id)
	if err == sql.ErrNoRows {
		return db.DisbursementSchedule{}, ErrScheduleNotFound
	} else if err != nil {
		return db.DisbursementSchedule{}, err
	}
	return schedule, nil
}

func (s *ScheduleService) Pause(ctx context.Context, id uuid.UUID) (db.DisbursementSchedule, error) {
	return s.setActive(ctx, id, false)
}

func (s *ScheduleService) Resume(ctx context.Context, id uuid.UUID) (db.DisbursementSchedule, error) {
	return s.setActive(ctx, id, true)
}

func (s *ScheduleService) setActive(ctx context.Context, id uuid.UUID, active bool) (db.DisbursementSchedule, error) {
	schedule, err := s.store.SetDisbursementScheduleActive(ctx, db.SetDisbursementScheduleActiveParams{
		ID:     id,
		Active: active,
	})
	if err == sql.ErrNoRows {
		return db.DisbursementSchedule{}, ErrScheduleNotFound
	} else if err != nil {
		return db.DisbursementSchedule{}, err
	}
	return schedule, nil
}

// Sweep creates a pending disbursement for every schedule that is due
// at now and advances each schedule to its next run, all in one
// transaction. The created disbursements are processed after the
// commit: the schedule advances even when a payout then fails, the
// failed row stays behind for Retry rather than being re-created on
// every sweep.
func (s *ScheduleService) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var created []db.Disbursement

	err := s.store.ExecTx(ctx, func(q db.Querier) error {
		due, err := q.ListDueDisbursementSchedules(ctx, db.ListDueDisbursementSchedulesParams{
			Now:   now,
			Limit: sweepBatchSize,
		})
		if err != nil {
			return err
		}

		for _, schedule := range due {
			d, err := q.CreateDisbursement(ctx, db.CreateDisbursementParams{
				SubscriptionID: schedule.SubscriptionID,
				DistributionID: uuid.New(),
				Amount:         schedule.Amount,
				RoiPercentage:  schedule.RoiPercentage,
				ScheduledFor:   schedule.NextDisbursement,
			})
			if err != nil {
				return err
			}

			if _, err := q.AdvanceDisbursementSchedule(ctx, db.AdvanceDisbursementScheduleParams{
				ID:               schedule.ID,
				NextDisbursement: NextRun(schedule.NextDisbursement, schedule.Frequency),
			}); err != nil {
				return err
			}

			created = append(created, d)
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Due: len(created)}
	for _, d := range created {
		if err := s.disbursements.Process(ctx, d.ID); err != nil {
			s.logger.WithError(err).WithField("disbursement", d.ID).Error("scheduled disbursement failed")
			result.Failed++
		} else {
			result.Completed++
		}
	}

	if result.Due > 0 {
		s.logger.WithFields(logrus.Fields{
			"due":       result.Due,
			"completed": result.Completed,
			"failed":    result.Failed,
		}).Info("schedule sweep finished")
	}

	return result, nil
}

// NextRun advances a run time by one period. Day-of-month is clamped to
// the target month, so a schedule anchored on Jan 31 runs next on
// Feb 29 in a leap year rather than spilling into March.
func NextRun(from time.Time, frequency db.ScheduleFrequency) time.Time {
	months := 1
	switch frequency {
	case db.ScheduleFrequencyQuarterly:
		months = 3
	case db.ScheduleFrequencyAnnually:
		months = 12
	}
	return addMonthsClamped(from, months)
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	// Normalize via the first of the target month, then clamp the day.
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
