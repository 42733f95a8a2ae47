package voucher

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Payload is the signed redemption claim. Field order is fixed so that
// the serialized bytes hash the same way on every node.
type Payload struct {
	SourceAddress string          `json:"source_address"`
	Recipient     string          `json:"recipient"`
	Amount        decimal.Decimal `json:"amount"`
	TokenAddress  string          `json:"token_address"`
	IssuedAt      int64           `json:"issued_at"`
	Nonce         string          `json:"nonce"`
}

// Voucher pairs the serialized payload with its secp256k1 signature.
// The payload travels as raw bytes because re-marshalling it could
// change the digest the signature was made over.
type Voucher struct {
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
}
