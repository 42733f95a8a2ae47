package chain

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TokenAddress  string          `json:"token_address"`
		HolderAddress string          `json:"holder_address"`
		Balance       decimal.Decimal `json:"balance"`
	} `json:"data"`
}

type SubmitVoucherRequest struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

type SubmitVoucherResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TxHash string `json:"tx_hash"`
	} `json:"data"`
}
