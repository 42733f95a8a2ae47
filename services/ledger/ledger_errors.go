package ledger

import "fmt"

var (
	ErrAccountNotFound    = fmt.Errorf("wallet account not found")
	ErrAccountNotPossible = fmt.Errorf("could not create wallet account")
	ErrInsufficientFunds  = fmt.Errorf("insufficient funds")
)
