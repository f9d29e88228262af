package compute

import "github.com/mailpay/custody/errors"

var (
	// ErrAbortedComputation is returned when a result is requested from a
	// computation the cluster declared failed. There is no retry; the
	// submitter must queue a fresh computation.
	ErrAbortedComputation = errors.Register(1030, "aborted computation")

	// ErrNotQueued is returned when a callback arrives for a computation
	// that already received one.
	ErrNotQueued = errors.Register(1031, "computation not queued")

	// ErrNotCompleted is returned when a result is requested before the
	// cluster delivered its callback.
	ErrNotCompleted = errors.Register(1032, "computation not completed")
)
