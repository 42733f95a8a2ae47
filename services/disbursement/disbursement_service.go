package disbursement

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/allocation"
	"github.com/BrickVest/BrickVest-Backend/services/ledger"
	"github.com/BrickVest/BrickVest-Backend/services/monitoring/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sqlc-dev/pqtype"
)

// Store is the query layer plus transactional execution, as satisfied
// by db.Store.
type Store interface {
	db.Querier
	ExecTx(ctx context.Context, fn func(q db.Querier) error) error
}

// Notifier delivers payout notices. Implementations must not block the
// payout path; failures are their own problem to log.
type Notifier interface {
	NotifyDisbursement(ctx context.Context, userID int64, d db.Disbursement)
}

// DisbursementService moves distribution proceeds into investor wallets.
// Processing is idempotent per disbursement and atomic per payout: the
// ledger credit and the status flip commit together or not at all.
type DisbursementService struct {
	store    Store
	ledger   *ledger.LedgerService
	notifier Notifier
	logger   *logging.Logger
}

func NewDisbursementService(store Store, ledgerService *ledger.LedgerService, notifier Notifier, logger *logging.Logger) *DisbursementService {
	return &DisbursementService{
		store:    store,
		ledger:   ledgerService,
		notifier: notifier,
		logger:   logger,
	}
}

// Create records a pending payout of amount for one subscription within
// a distribution. At most one disbursement can exist per
// (subscription, distribution) pair.
func (s *DisbursementService) Create(ctx context.Context, subscriptionID, distributionID uuid.UUID, amount, roiPercentage decimal.Decimal, scheduledFor time.Time) (db.Disbursement, error) {
	if !amount.IsPositive() {
		return db.Disbursement{}, ErrInvalidAmount
	}

	if _, err := s.store.GetSubscription(ctx, subscriptionID); err != nil {
		if err == sql.ErrNoRows {
			return db.Disbursement{}, ErrSubscriptionNotFound
		}
		return db.Disbursement{}, err
	}

	d, err := s.store.CreateDisbursement(ctx, db.CreateDisbursementParams{
		SubscriptionID: subscriptionID,
		DistributionID: distributionID,
		Amount:         amount,
		RoiPercentage:  roiPercentage,
		ScheduledFor:   scheduledFor,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return db.Disbursement{}, ErrDuplicateDisbursement
		}
		return db.Disbursement{}, err
	}

	return d, nil
}

func (s *DisbursementService) Get(ctx context.Context, id uuid.UUID) (db.Disbursement, error) {
	d, err := s.store.GetDisbursement(ctx, id)
	if err == sql.ErrNoRows {
		return db.Disbursement{}, ErrNotFound
	} else if err != nil {
		return db.Disbursement{}, err
	}
	return d, nil
}

// Process executes a pending disbursement: it credits the subscriber's
// wallet and marks the row completed in one transaction. Calling it on
// an already completed disbursement is a no-op, so a crashed worker can
// always be re-run safely.
func (s *DisbursementService) Process(ctx context.Context, id uuid.UUID) error {
	d, err := s.store.GetDisbursement(ctx, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if d.Status == db.DisbursementStatusCompleted {
		return nil
	}
	if d.Status == db.DisbursementStatusFailed {
		return ErrInvalidState
	}

	subscription, err := s.store.GetSubscription(ctx, d.SubscriptionID)
	if err != nil {
		err = fmt.Errorf("load subscription for disbursement %s: %w", id, err)
		s.markFailed(ctx, id, err)
		return err
	}
	account, err := s.store.GetWalletAccountByUserID(ctx, subscription.UserID)
	if err != nil {
		err = fmt.Errorf("load wallet account for user %d: %w", subscription.UserID, err)
		s.markFailed(ctx, id, err)
		return err
	}

	var credited bool
	txErr := s.store.ExecTx(ctx, func(q db.Querier) error {
		locked, err := q.GetDisbursementForUpdate(ctx, id)
		if err != nil {
			return err
		}
		// A concurrent processor may have finished while we waited on
		// the row lock.
		if locked.Status == db.DisbursementStatusCompleted || locked.Status == db.DisbursementStatusProcessing {
			return nil
		}

		if _, err := q.MarkDisbursementProcessing(ctx, id); err != nil {
			if err == sql.ErrNoRows {
				return ErrInvalidState
			}
			return err
		}

		metadata, _ := json.Marshal(map[string]string{
			"distribution_id": locked.DistributionID.String(),
			"subscription_id": locked.SubscriptionID.String(),
		})
		transaction, err := s.ledger.Credit(ctx, q, account.ID, ledger.Entry{
			Type:           db.TransactionTypeRoiDisbursement,
			Amount:         locked.Amount,
			ToAddress:      subscription.WalletAddress,
			DisbursementID: uuid.NullUUID{UUID: id, Valid: true},
			Metadata:       pqtype.NullRawMessage{RawMessage: metadata, Valid: true},
		})
		if err != nil {
			return err
		}

		if _, err := q.MarkDisbursementCompleted(ctx, db.MarkDisbursementCompletedParams{
			ID:            id,
			TransactionID: uuid.NullUUID{UUID: transaction.ID, Valid: true},
		}); err != nil {
			return err
		}

		credited = true
		return nil
	})
	if txErr != nil {
		// The transaction above rolled back, so the failure mark has to
		// happen outside it to survive.
		s.markFailed(ctx, id, txErr)
		return txErr
	}

	if credited {
		s.logger.WithFields(logrus.Fields{
			"disbursement": id,
			"subscription": d.SubscriptionID,
			"amount":       d.Amount,
		}).Info("disbursement completed")
		if s.notifier != nil {
			s.notifier.NotifyDisbursement(ctx, subscription.UserID, d)
		}
	}

	return nil
}

func (s *DisbursementService) markFailed(ctx context.Context, id uuid.UUID, cause error) {
	if _, err := s.store.MarkDisbursementFailed(ctx, db.MarkDisbursementFailedParams{
		ID:            id,
		FailureReason: sql.NullString{String: cause.Error(), Valid: true},
	}); err != nil {
		s.logger.WithError(err).Error("failed to mark disbursement failed")
	}
}

// Retry re-runs a failed disbursement. Only failed rows are eligible;
// completed and in-flight rows are refused.
func (s *DisbursementService) Retry(ctx context.Context, id uuid.UUID) error {
	d, err := s.store.GetDisbursement(ctx, id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if d.Status != db.DisbursementStatusFailed {
		return ErrInvalidState
	}

	if _, err := s.store.ResetDisbursementForRetry(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return ErrInvalidState
		}
		return err
	}

	return s.Process(ctx, id)
}

// Distribute splits total across a property's active subscribers in
// proportion to their share and processes one disbursement per
// subscriber. A failed payout does not stop the batch, the remaining
// subscribers are still paid and the failure stays on record for Retry.
func (s *DisbursementService) Distribute(ctx context.Context, propertyID, distributionID uuid.UUID, total decimal.Decimal, scheduledFor time.Time) (*DistributionResult, error) {
	if !total.IsPositive() {
		return nil, ErrInvalidAmount
	}

	subscriptions, err := s.store.ListActiveSubscriptionsByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	shares := make([]allocation.Share, 0, len(subscriptions))
	for _, sub := range subscriptions {
		shares = append(shares, allocation.Share{
			SubscriptionID:  sub.ID,
			SharePercentage: sub.SharePercentage,
		})
	}

	allocations, err := allocation.Allocate(total, shares)
	if err != nil {
		return nil, err
	}

	result := &DistributionResult{
		DistributionID: distributionID,
		PropertyID:     propertyID,
		Total:          total,
	}
	for _, alloc := range allocations {
		d, err := s.Create(ctx, alloc.SubscriptionID, distributionID, alloc.Amount, alloc.SharePercentage, scheduledFor)
		if err == ErrDuplicateDisbursement {
			// Re-running the same distribution must not double-pay, but
			// an existing record still gets processed so a run that died
			// between create and process does not strand it. Process is
			// a no-op on completed rows.
			s.logger.WithFields(logrus.Fields{
				"distribution": distributionID,
				"subscription": alloc.SubscriptionID,
			}).Info("disbursement already exists, reprocessing")

			d, err = s.store.GetDisbursementByDistributionAndSubscription(ctx, db.GetDisbursementByDistributionAndSubscriptionParams{
				DistributionID: distributionID,
				SubscriptionID: alloc.SubscriptionID,
			})
			if err != nil {
				return result, err
			}
		} else if err != nil {
			return result, err
		} else {
			result.Created++
		}

		if err := s.Process(ctx, d.ID); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"disbursement": d.ID,
				"subscription": alloc.SubscriptionID,
			}).Error("disbursement failed during distribution")
			result.Failed++
		} else {
			result.Completed++
		}

		final, err := s.store.GetDisbursement(ctx, d.ID)
		if err != nil {
			final = d
		}
		result.Disbursements = append(result.Disbursements, final)
	}

	s.logger.WithFields(logrus.Fields{
		"distribution": distributionID,
		"property":     propertyID,
		"total":        total,
		"created":      result.Created,
		"completed":    result.Completed,
		"failed":       result.Failed,
	}).Info("distribution run finished")

	return result, nil
}
