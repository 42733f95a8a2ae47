package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "unverified"
	VerificationStatusPending    VerificationStatus = "pending"
	VerificationStatusVerified   VerificationStatus = "verified"
)

func (e *VerificationStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = VerificationStatus(s)
	case string:
		*e = VerificationStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for VerificationStatus: %T", src)
	}
	return nil
}

func (e VerificationStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type TransactionType string

const (
	TransactionTypeDeposit             TransactionType = "deposit"
	TransactionTypeWithdrawal          TransactionType = "withdrawal"
	TransactionTypeTransfer            TransactionType = "transfer"
	TransactionTypeSubscriptionPayment TransactionType = "subscription_payment"
	TransactionTypeRoiDisbursement     TransactionType = "roi_disbursement"
	TransactionTypeRefund              TransactionType = "refund"
)

func (e *TransactionType) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = TransactionType(s)
	case string:
		*e = TransactionType(s)
	default:
		return fmt.Errorf("unsupported scan type for TransactionType: %T", src)
	}
	return nil
}

func (e TransactionType) Value() (driver.Value, error) {
	return string(e), nil
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (e *TransactionStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = TransactionStatus(s)
	case string:
		*e = TransactionStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for TransactionStatus: %T", src)
	}
	return nil
}

func (e TransactionStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

func (e *SubscriptionStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = SubscriptionStatus(s)
	case string:
		*e = SubscriptionStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for SubscriptionStatus: %T", src)
	}
	return nil
}

func (e SubscriptionStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type DisbursementStatus string

const (
	DisbursementStatusPending    DisbursementStatus = "pending"
	DisbursementStatusProcessing DisbursementStatus = "processing"
	DisbursementStatusCompleted  DisbursementStatus = "completed"
	DisbursementStatusFailed     DisbursementStatus = "failed"
)

func (e *DisbursementStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = DisbursementStatus(s)
	case string:
		*e = DisbursementStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for DisbursementStatus: %T", src)
	}
	return nil
}

func (e DisbursementStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type ScheduleFrequency string

const (
	ScheduleFrequencyMonthly   ScheduleFrequency = "monthly"
	ScheduleFrequencyQuarterly ScheduleFrequency = "quarterly"
	ScheduleFrequencyAnnually  ScheduleFrequency = "annually"
)

func (e *ScheduleFrequency) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = ScheduleFrequency(s)
	case string:
		*e = ScheduleFrequency(s)
	default:
		return fmt.Errorf("unsupported scan type for ScheduleFrequency: %T", src)
	}
	return nil
}

func (e ScheduleFrequency) Value() (driver.Value, error) {
	return string(e), nil
}

type ErrorLogStatus string

const (
	ErrorLogStatusFailed   ErrorLogStatus = "FAILED"
	ErrorLogStatusRetrying ErrorLogStatus = "RETRYING"
	ErrorLogStatusResolved ErrorLogStatus = "RESOLVED"
)

func (e *ErrorLogStatus) Scan(src interface{}) error {
	switch s := src.(type) {
	case []byte:
		*e = ErrorLogStatus(s)
	case string:
		*e = ErrorLogStatus(s)
	default:
		return fmt.Errorf("unsupported scan type for ErrorLogStatus: %T", src)
	}
	return nil
}

func (e ErrorLogStatus) Value() (driver.Value, error) {
	return string(e), nil
}

type WalletAccount struct {
	ID                 uuid.UUID          `json:"id"`
	UserID             int64              `json:"user_id"`
	ChainAddress       string             `json:"chain_address"`
	Balance            decimal.Decimal    `json:"balance"`
	ChainNonce         int64              `json:"chain_nonce"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type WalletTransaction struct {
	ID             uuid.UUID             `json:"id"`
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
	CreatedAt      time.Time             `json:"created_at"`
}

type Subscription struct {
	ID              uuid.UUID          `json:"id"`
	PropertyID      uuid.UUID          `json:"property_id"`
	UserID          int64              `json:"user_id"`
	WalletAddress   string             `json:"wallet_address"`
	Amount          decimal.Decimal    `json:"amount"`
	SharePercentage decimal.Decimal    `json:"share_percentage"`
	Status          SubscriptionStatus `json:"status"`
	KycVerified     bool               `json:"kyc_verified"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type Disbursement struct {
	ID             uuid.UUID          `json:"id"`
	SubscriptionID uuid.UUID          `json:"subscription_id"`
	DistributionID uuid.UUID          `json:"distribution_id"`
	Amount         decimal.Decimal    `json:"amount"`
	RoiPercentage  decimal.Decimal    `json:"roi_percentage"`
	Status         DisbursementStatus `json:"status"`
	TransactionID  uuid.NullUUID      `json:"transaction_id"`
	TxHash         sql.NullString     `json:"tx_hash"`
	FailureReason  sql.NullString     `json:"failure_reason"`
	ScheduledFor   time.Time          `json:"scheduled_for"`
	ProcessedAt    sql.NullTime       `json:"processed_at"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type DisbursementSchedule struct {
	ID               uuid.UUID         `json:"id"`
	SubscriptionID   uuid.UUID         `json:"subscription_id"`
	Amount           decimal.Decimal   `json:"amount"`
	RoiPercentage    decimal.Decimal   `json:"roi_percentage"`
	Frequency        ScheduleFrequency `json:"frequency"`
	NextDisbursement time.Time         `json:"next_disbursement"`
	Active           bool              `json:"active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type ConsumedNonce struct {
	Nonce         string    `json:"nonce"`
	SourceAddress string    `json:"source_address"`
	ConsumedAt    time.Time `json:"consumed_at"`
}

type ErrorLog struct {
	ID           int64                 `json:"id"`
	Service      string                `json:"service"`
	Operation    string                `json:"operation"`
	ErrorMessage string                `json:"error_message"`
	Context      pqtype.NullRawMessage `json:"context"`
	RetryCount   int32                 `json:"retry_count"`
	MaxRetries   int32                 `json:"max_retries"`
	Status       ErrorLogStatus        `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	ResolvedAt   sql.NullTime          `json:"resolved_at"`
}

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
