package models

import (
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/BrickVest/BrickVest-Backend/services/disbursement"
	"github.com/google/uuid"
)

type DisbursementCollectionResponse []DisbursementResponse

type DisbursementResponse struct {
	ID             uuid.UUID  `json:"id"`
	SubscriptionID uuid.UUID  `json:"subscription_id"`
	DistributionID uuid.UUID  `json:"distribution_id"`
	Amount         string     `json:"amount"`
	RoiPercentage  string     `json:"roi_percentage"`
	Status         string     `json:"status"`
	TransactionID  *uuid.UUID `json:"transaction_id,omitempty"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	ScheduledFor   time.Time  `json:"scheduled_for"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToDisbursementResponse(d db.Disbursement) *DisbursementResponse {
	resp := &DisbursementResponse{
		ID:             d.ID,
		SubscriptionID: d.SubscriptionID,
		DistributionID: d.DistributionID,
		Amount:         d.Amount.StringFixed(2),
		RoiPercentage:  d.RoiPercentage.String(),
		Status:         string(d.Status),
		FailureReason:  d.FailureReason.String,
		ScheduledFor:   d.ScheduledFor,
		CreatedAt:      d.CreatedAt,
	}
	if d.TransactionID.Valid {
		id := d.TransactionID.UUID
		resp.TransactionID = &id
	}
	if d.ProcessedAt.Valid {
		at := d.ProcessedAt.Time
		resp.ProcessedAt = &at
	}
	return resp
}

func ToDisbursementCollectionResponse(rows []db.Disbursement) DisbursementCollectionResponse {
	var responses DisbursementCollectionResponse
	for _, row := range rows {
		responses = append(responses, *ToDisbursementResponse(row))
	}
	return responses
}

type DistributionResponse struct {
	DistributionID uuid.UUID                      `json:"distribution_id"`
	PropertyID     uuid.UUID                      `json:"property_id"`
	Total          string                         `json:"total"`
	Created        int                            `json:"created"`
	Completed      int                            `json:"completed"`
	Failed         int                            `json:"failed"`
	Disbursements  DisbursementCollectionResponse `json:"disbursements"`
}

func ToDistributionResponse(result *disbursement.DistributionResult) *DistributionResponse {
	return &DistributionResponse{
		DistributionID: result.DistributionID,
		PropertyID:     result.PropertyID,
		Total:          result.Total.StringFixed(2),
		Created:        result.Created,
		Completed:      result.Completed,
		Failed:         result.Failed,
		Disbursements:  ToDisbursementCollectionResponse(result.Disbursements),
	}
}

type ScheduleCollectionResponse []ScheduleResponse

type ScheduleResponse struct {
	ID               uuid.UUID `json:"id"`
	SubscriptionID   uuid.UUID `json:"subscription_id"`
	Amount           string    `json:"amount"`
	RoiPercentage    string    `json:"roi_percentage"`
	Frequency        string    `json:"frequency"`
	NextDisbursement time.Time `json:"next_disbursement"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToScheduleResponse(schedule db.DisbursementSchedule) *ScheduleResponse {
	return &ScheduleResponse{
		ID:               schedule.ID,
		SubscriptionID:   schedule.SubscriptionID,
		Amount:           schedule.Amount.StringFixed(2),
		RoiPercentage:    schedule.RoiPercentage.String(),
		Frequency:        string(schedule.Frequency),
		NextDisbursement: schedule.NextDisbursement,
		Active:           schedule.Active,
		CreatedAt:        schedule.CreatedAt,
	}
}

func ToScheduleCollectionResponse(rows []db.DisbursementSchedule) ScheduleCollectionResponse {
	var responses ScheduleCollectionResponse
	for _, row := range rows {
		responses = append(responses, *ToScheduleResponse(row))
	}
	return responses
}

type SubscriptionCollectionResponse []SubscriptionResponse

type SubscriptionResponse struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	UserID          ID        `json:"user_id"`
	WalletAddress   string    `json:"wallet_address"`
	Amount          string    `json:"amount"`
	SharePercentage string    `json:"share_percentage"`
	Status          string    `json:"status"`
	KycVerified     bool      `json:"kyc_verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func ToSubscriptionResponse(sub db.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:              sub.ID,
		PropertyID:      sub.PropertyID,
		UserID:          ID(sub.UserID),
		WalletAddress:   sub.WalletAddress,
		Amount:          sub.Amount.StringFixed(2),
		SharePercentage: sub.SharePercentage.String(),
		Status:          string(sub.Status),
		KycVerified:     sub.KycVerified,
		CreatedAt:       sub.CreatedAt,
	}
}

func ToSubscriptionCollectionResponse(rows []db.Subscription) SubscriptionCollectionResponse {
	var responses SubscriptionCollectionResponse
	for _, row := range rows {
		responses = append(responses, *ToSubscriptionResponse(row))
	}
	return responses
}
