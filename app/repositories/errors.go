package repositories

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a unique constraint violation: another record
	// already holds the value.
	ErrConflict = errors.New("record conflicts with an existing record")
	// ErrTxConflict reports a transaction that kept losing write races
	// after every retry.
	ErrTxConflict = errors.New("transaction conflict")
)

// maxTxnAttempts bounds how often Update reruns a transaction that lost a
// race with a concurrent commit.
const maxTxnAttempts = 10
