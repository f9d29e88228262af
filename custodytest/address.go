package custodytest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/mailpay/custody"
)

var condCounter uint64

// NewCondition returns a new, unique condition. Conditions created by this
// function are deterministic within a single test binary run, so repeated
// calls never collide.
func NewCondition() custody.Condition {
	n := atomic.AddUint64(&condCounter, 1)
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n)
	return custody.NewCondition("test", "seq", data)
}
