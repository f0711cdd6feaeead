package domain

import "errors"

var (
	// ErrInvalidAmount rejects a missing, zero, negative or unparsable amount.
	// It is always detected before any storage access.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnsupportedFormat rejects a statement export format the service cannot
	// produce.
	ErrUnsupportedFormat = errors.New("unsupported statement format")
)
