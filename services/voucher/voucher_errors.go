package voucher

import "errors"

var (
	ErrKycRequired      = errors.New("account owner has not completed identity verification")
	ErrInvalidAmount    = errors.New("voucher amount must be greater than zero")
	ErrMalformed        = errors.New("voucher payload is malformed")
	ErrExpired          = errors.New("voucher has expired")
	ErrInvalidSignature = errors.New("voucher signature was not produced by the authority key")
	ErrReplayedVoucher  = errors.New("voucher nonce has already been consumed")
)
