package escrow

import (
	"github.com/mailpay/custody/errors"
)

// Error codes 1010-1029 are reserved for the escrow extension.
var (
	// ErrEscrowNotPending is returned when a resolution is attempted on a
	// record that already reached a terminal status. This is the signal
	// of a lost race; the caller should re-fetch the record instead of
	// retrying.
	ErrEscrowNotPending = errors.Register(1010, "escrow not pending")

	// ErrEscrowExpired is returned when a release or claim arrives after
	// the deadline already passed.
	ErrEscrowExpired = errors.Register(1011, "escrow expired")

	// ErrTimeoutNotReached is returned when a non-sender attempts a
	// refund before the deadline.
	ErrTimeoutNotReached = errors.Register(1012, "escrow timeout not reached")

	// ErrInvalidRecipient is returned when the caller is not the bound
	// recipient, or no recipient is bound yet.
	ErrInvalidRecipient = errors.Register(1013, "invalid recipient")

	// ErrInvalidSender is returned when a claim names a sender identity
	// that does not match the record.
	ErrInvalidSender = errors.Register(1014, "invalid sender")

	// ErrInvalidPlatform is returned when the caller does not match the
	// bound platform identity.
	ErrInvalidPlatform = errors.Register(1015, "invalid platform")

	// ErrInvalidCorrelationID is returned when a claim names a
	// correlation id that does not match the record.
	ErrInvalidCorrelationID = errors.Register(1016, "invalid correlation id")

	// ErrInsufficientFunds is an invariant violation: the custody account
	// does not hold enough above the minimum reserve to pay the computed
	// shares. The request is aborted with the record untouched; nothing
	// is ever truncated.
	ErrInsufficientFunds = errors.Register(1017, "insufficient escrow funds")
)
