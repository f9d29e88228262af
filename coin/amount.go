package coin

import (
	"math"
	"strconv"

	"github.com/mailpay/custody/errors"
)

// Amount is a quantity of the single fungible unit the engine custodies.
// It is an unsigned 64 bit integer so the full u64 value range of the host
// ledger is representable. All arithmetic is checked; an Amount can never
// silently wrap.
type Amount uint64

// basisPoints is the denominator of all fee rates. A fee of 200 basis
// points is 2%.
const basisPoints = 10000

// MaxAmount is the highest representable amount.
const MaxAmount Amount = math.MaxUint64

// Add returns the sum of both amounts or ErrOverflow when the sum is not
// representable.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns the difference of both amounts or ErrAmount when the result
// would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrAmount, "%d - %d is negative", a, b)
	}
	return a - b, nil
}

// IsZero returns true when this amount holds no value.
func (a Amount) IsZero() bool {
	return a == 0
}

// IsPositive returns true when this amount holds any value.
func (a Amount) IsPositive() bool {
	return a > 0
}

// String returns the decimal representation of the amount.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// Split divides a gross amount into a fee share and a net share such that
// fee+net is always exactly the gross amount. The fee is rounded down:
//
//   fee = floor(gross * bps / 10000)
//
// The multiplication is performed on the quotient and remainder of the
// gross separately, so it cannot overflow for any uint64 gross as long as
// the rate does not exceed the basis point denominator.
func Split(gross Amount, bps uint32) (fee, net Amount, err error) {
	if bps > basisPoints {
		return 0, 0, errors.Wrapf(errors.ErrInput, "fee rate %d exceeds %d basis points", bps, basisPoints)
	}
	q := uint64(gross) / basisPoints
	r := uint64(gross) % basisPoints
	// q*bps <= (2^64/10^4)*10^4 and r*bps < 10^4*10^4, neither can wrap
	fee = Amount(q*uint64(bps) + r*uint64(bps)/basisPoints)
	return fee, gross - fee, nil
}
