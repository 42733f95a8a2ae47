package ledger

import (
	"database/sql"

	db "github.com/BrickVest/BrickVest-Backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sqlc-dev/pqtype"
)

// Entry describes one balance mutation to record against an account.
// DisbursementID is set for roi_disbursement entries so the database's
// unique constraint rejects a second ledger write for the same
// disbursement.
type Entry struct {
	Type           db.TransactionType
	Amount         decimal.Decimal
	FromAddress    string
	ToAddress      string
	Reference      string
	DisbursementID uuid.NullUUID
	TxHash         string
	Metadata       pqtype.NullRawMessage
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
