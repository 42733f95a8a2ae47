package disbursement

import (
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DistributionResult summarizes one distribution run over a property's
// active subscribers.
type DistributionResult struct {
	DistributionID uuid.UUID         `json:"distribution_id"`
	PropertyID     uuid.UUID         `json:"property_id"`
	Total          decimal.Decimal   `json:"total"`
	Created        int               `json:"created"`
	Completed      int               `json:"completed"`
	Failed         int               `json:"failed"`
	Disbursements  []db.Disbursement `json:"disbursements"`
}

// SweepResult summarizes one pass over due schedules.
type SweepResult struct {
	Due       int `json:"due"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// CreateScheduleInput carries the fields needed to set up a recurring
// payout.
type CreateScheduleInput struct {
	SubscriptionID   uuid.UUID            `json:"subscription_id"`
	Amount           decimal.Decimal      `json:"amount"`
	RoiPercentage    decimal.Decimal      `json:"roi_percentage"`
	Frequency        db.ScheduleFrequency `json:"frequency"`
	NextDisbursement time.Time            `json:"next_disbursement"`
}
