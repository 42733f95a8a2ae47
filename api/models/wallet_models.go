package models

import (
	"time"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/google/uuid"
)

type WalletResponse struct {
	ID                 uuid.UUID `json:"id"`
	UserID             ID        `json:"user_id"`
	ChainAddress       string    `json:"chain_address"`
	Balance            string    `json:"balance"`
	ChainNonce         int64     `json:"chain_nonce"`
	VerificationStatus string    `json:"verification_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func ToWalletResponse(account db.WalletAccount) *WalletResponse {
	return &WalletResponse{
		ID:                 account.ID,
		UserID:             ID(account.UserID),
		ChainAddress:       account.ChainAddress,
		Balance:            account.Balance.StringFixed(2),
		ChainNonce:         account.ChainNonce,
		VerificationStatus: string(account.VerificationStatus),
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	}
}

type TransactionCollectionResponse []TransactionResponse

type TransactionResponse struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	Amount         string     `json:"amount"`
	BalanceBefore  string     `json:"balance_before"`
	BalanceAfter   string     `json:"balance_after"`
	FromAddress    string     `json:"from_address,omitempty"`
	ToAddress      string     `json:"to_address,omitempty"`
	Status         string     `json:"status"`
	Reference      string     `json:"reference"`
	DisbursementID *uuid.UUID `json:"disbursement_id,omitempty"`
	TxHash         string     `json:"tx_hash,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func ToTransactionResponse(tx db.WalletTransaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:            tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount.StringFixed(2),
		BalanceBefore: tx.BalanceBefore.StringFixed(2),
		BalanceAfter:  tx.BalanceAfter.StringFixed(2),
		FromAddress:   tx.FromAddress.String,
		ToAddress:     tx.ToAddress.String,
		Status:        string(tx.Status),
		Reference:     tx.Reference,
		TxHash:        tx.TxHash.String,
		CreatedAt:     tx.CreatedAt,
	}
	if tx.DisbursementID.Valid {
		id := tx.DisbursementID.UUID
		resp.DisbursementID = &id
	}
	return resp
}

func ToTransactionCollectionResponse(txs []db.WalletTransaction) TransactionCollectionResponse {
	var responses TransactionCollectionResponse
	for _, tx := range txs {
		responses = append(responses, *ToTransactionResponse(tx))
	}
	return responses
}
