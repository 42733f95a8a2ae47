package db

import (
	"errors"

	"github.com/lib/pq"
)

const (
	DuplicateEntry pq.ErrorCode = "23505"
	CheckViolation pq.ErrorCode = "23514"
	EntryTooLong   pq.ErrorCode = "22001"
)

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == DuplicateEntry
	}
	return false
}

// IsCheckViolation reports whether err is a postgres check-constraint
// violation (e.g. the non-negative balance check).
func IsCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == CheckViolation
	}
	return false
}
