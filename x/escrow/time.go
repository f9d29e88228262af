package escrow

import (
	"github.com/mailpay/custody"
)

// blockNow returns the block time declared for the currently processed
// request. Every transition reads the clock exactly once, through this
// helper, and threads the value through its guards; a deadline must never
// be compared against two different reads of a mutable clock.
//
// This function panics if the block time is not provided in the context.
// This must never happen. The panic is here to prevent a broken setup from
// processing data incorrectly.
func blockNow(ctx custody.Context) custody.UnixTime {
	now, err := custody.BlockTime(ctx)
	if err != nil {
		panic(err)
	}
	return custody.AsUnixTime(now)
}

// isExpired returns true once now reached the deadline. The deadline itself
// already counts as expired.
func isExpired(deadline, now custody.UnixTime) bool {
	return now >= deadline
}
