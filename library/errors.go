package library

import "errors"

// Circulation failures, one sentinel per kind. Every operation detects its
// failure before mutating anything, so a returned error means the ledgers
// are exactly as they were.
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrBookNotFound         = errors.New("book not found")
	ErrNotEligible          = errors.New("member is not eligible")
	ErrNoCopyAvailable      = errors.New("no copy available")
	ErrReservedByAnother    = errors.New("book is reserved by another member")
	ErrAlreadyIssued        = errors.New("book is already issued to this member")
	ErrNotCurrentlyIssued   = errors.New("book is not currently issued to this member")
	ErrDuplicateReservation = errors.New("member has already reserved this book")
	ErrNoReservation        = errors.New("no reservation found")
	ErrInvalidPayment       = errors.New("payment amount is invalid")
	ErrInvalidCredentials   = errors.New("invalid member credentials")

	// ErrPersistFailed wraps a snapshot-store write error. The logical
	// operation is rolled back in memory so durable and in-memory state
	// never diverge.
	ErrPersistFailed = errors.New("failed to persist circulation state")
)
