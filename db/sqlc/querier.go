package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

type Querier interface {
	AdvanceDisbursementSchedule(ctx context.Context, arg AdvanceDisbursementScheduleParams) (DisbursementSchedule, error)
	CancelSubscription(ctx context.Context, id uuid.UUID) (Subscription, error)
	CreateDisbursement(ctx context.Context, arg CreateDisbursementParams) (Disbursement, error)
	CreateDisbursementSchedule(ctx context.Context, arg CreateDisbursementScheduleParams) (DisbursementSchedule, error)
	CreateErrorLog(ctx context.Context, arg CreateErrorLogParams) (ErrorLog, error)
	CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error)
	CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (Subscription, error)
	CreateWalletAccount(ctx context.Context, arg CreateWalletAccountParams) (WalletAccount, error)
	CreateWalletTransaction(ctx context.Context, arg CreateWalletTransactionParams) (WalletTransaction, error)
	GetDisbursement(ctx context.Context, id uuid.UUID) (Disbursement, error)
	GetDisbursementByDistributionAndSubscription(ctx context.Context, arg GetDisbursementByDistributionAndSubscriptionParams) (Disbursement, error)
	GetDisbursementForUpdate(ctx context.Context, id uuid.UUID) (Disbursement, error)
	GetDisbursementSchedule(ctx context.Context, id uuid.UUID) (DisbursementSchedule, error)
	GetDisbursementStatsByProperty(ctx context.Context, propertyID uuid.UUID) (GetDisbursementStatsByPropertyRow, error)
	GetNextScheduledDisbursement(ctx context.Context, subscriptionID uuid.UUID) (sql.NullTime, error)
	GetSubscription(ctx context.Context, id uuid.UUID) (Subscription, error)
	GetWalletAccount(ctx context.Context, id uuid.UUID) (WalletAccount, error)
	GetWalletAccountByUserID(ctx context.Context, userID int64) (WalletAccount, error)
	GetWalletAccountForUpdate(ctx context.Context, id uuid.UUID) (WalletAccount, error)
	GetWalletTransaction(ctx context.Context, id uuid.UUID) (WalletTransaction, error)
	GetWalletTransactionByDisbursementID(ctx context.Context, disbursementID uuid.NullUUID) (WalletTransaction, error)
	IncrementWalletAccountNonce(ctx context.Context, id uuid.UUID) (int64, error)
	InsertConsumedNonce(ctx context.Context, arg InsertConsumedNonceParams) (ConsumedNonce, error)
	ListActiveSubscriptionsByProperty(ctx context.Context, propertyID uuid.UUID) ([]Subscription, error)
	ListDisbursementsByDistribution(ctx context.Context, distributionID uuid.UUID) ([]Disbursement, error)
	ListDisbursementsBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]Disbursement, error)
	ListDueDisbursementSchedules(ctx context.Context, arg ListDueDisbursementSchedulesParams) ([]DisbursementSchedule, error)
	ListNotificationsByUser(ctx context.Context, userID int64) ([]Notification, error)
	ListSchedulesBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]DisbursementSchedule, error)
	ListSubscriptionsByUser(ctx context.Context, userID int64) ([]Subscription, error)
	ListUnresolvedErrorLogs(ctx context.Context, limit int32) ([]ErrorLog, error)
	ListWalletTransactionsByAccount(ctx context.Context, arg ListWalletTransactionsByAccountParams) ([]WalletTransaction, error)
	MarkDisbursementCompleted(ctx context.Context, arg MarkDisbursementCompletedParams) (Disbursement, error)
	MarkDisbursementFailed(ctx context.Context, arg MarkDisbursementFailedParams) (Disbursement, error)
	MarkDisbursementProcessing(ctx context.Context, id uuid.UUID) (Disbursement, error)
	NonceConsumed(ctx context.Context, nonce string) (bool, error)
	ResetDisbursementForRetry(ctx context.Context, id uuid.UUID) (Disbursement, error)
	ResolveErrorLog(ctx context.Context, id int64) (ErrorLog, error)
	SetDisbursementScheduleActive(ctx context.Context, arg SetDisbursementScheduleActiveParams) (DisbursementSchedule, error)
	SetSubscriptionKycVerified(ctx context.Context, arg SetSubscriptionKycVerifiedParams) (Subscription, error)
	UpdateWalletAccountBalance(ctx context.Context, arg UpdateWalletAccountBalanceParams) (WalletAccount, error)
	UpdateWalletAccountVerification(ctx context.Context, arg UpdateWalletAccountVerificationParams) (WalletAccount, error)
}

var _ Querier = (*Queries)(nil)
