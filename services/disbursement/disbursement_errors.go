package disbursement

import "errors"

var (
	ErrNotFound              = errors.New("disbursement not found")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrScheduleNotFound      = errors.New("disbursement schedule not found")
	ErrDuplicateDisbursement = errors.New("disbursement already exists for this subscription and distribution")
	ErrInvalidState          = errors.New("disbursement is not in a state that allows this operation")
	ErrInvalidAmount         = errors.New("amount must be greater than zero")
	ErrInvalidFrequency      = errors.New("unsupported schedule frequency")
	ErrSubscriptionInactive  = errors.New("subscription is not active")
)
