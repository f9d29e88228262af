package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/orm"
)

// Status describes where in its lifecycle an escrow record is. The status
// moves from Pending to exactly one terminal value and never again.
type Status uint8

const (
	// StatusPending means the value is in custody and the record can
	// still be resolved.
	StatusPending Status = 1
	// StatusReleased means the bound recipient collected the net amount.
	StatusReleased Status = 2
	// StatusRefunded means the deadline passed and the full amount went
	// back to the sender.
	StatusRefunded Status = 3
	// StatusWithheld means the sender explicitly reclaimed the full
	// amount before any release happened.
	StatusWithheld Status = 4
	// StatusCompleted means a previously unbound recipient claimed the
	// escrow, which bound and paid them in one step.
	StatusCompleted Status = 5
)

// Terminal returns true for every status an escrow cannot leave.
func (s Status) Terminal() bool {
	switch s {
	case StatusReleased, StatusRefunded, StatusWithheld, StatusCompleted:
		return true
	}
	return false
}

// Validate returns an error when the status holds a value outside of the
// known set.
func (s Status) Validate() error {
	if s < StatusPending || s > StatusCompleted {
		return errors.Wrapf(errors.ErrState, "status %d", s)
	}
	return nil
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReleased:
		return "released"
	case StatusRefunded:
		return "refunded"
	case StatusWithheld:
		return "withheld"
	case StatusCompleted:
		return "completed"
	default:
		return "invalid"
	}
}

const (
	// maxCorrelationIDSize caps the caller supplied correlation value.
	maxCorrelationIDSize = 256

	// recordFixedSize is the size of the record without the variable
	// correlation id: three 32 byte identities, the amount, the
	// correlation length, status, two timestamps and the bump.
	recordFixedSize = 3*custody.AddressLength + 8 + 2 + 1 + 8 + 8 + 1
)

// Escrow is the custody record. Recipient may be unset until claim time,
// Platform is only set for fee-charging escrows. Amount is immutable after
// creation; the only mutable fields are Status and, for claim-time binding,
// Recipient.
type Escrow struct {
	Sender        custody.Address
	Recipient     custody.Address
	Platform      custody.Address
	Amount        coin.Amount
	CorrelationID []byte
	Status        Status
	CreatedAt     custody.UnixTime
	ExpiresAt     custody.UnixTime
	Bump          byte
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow record is valid.
func (e *Escrow) Validate() error {
	if err := e.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if e.Recipient != nil {
		if err := e.Recipient.Validate(); err != nil {
			return errors.Wrap(err, "recipient")
		}
	}
	if e.Platform != nil {
		if err := e.Platform.Validate(); err != nil {
			return errors.Wrap(err, "platform")
		}
	}
	if !e.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "amount")
	}
	if len(e.CorrelationID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "correlation id")
	}
	if len(e.CorrelationID) > maxCorrelationIDSize {
		return errors.Wrapf(errors.ErrInput, "correlation id %d bytes", len(e.CorrelationID))
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	if err := e.CreatedAt.Validate(); err != nil {
		return errors.Wrap(err, "created at")
	}
	if e.ExpiresAt.IsZero() {
		// Zero timeout is a valid value that dates to 1970-01-01. We
		// know that this value is in the past and makes no sense.
		// Most likely the value was not provided.
		return errors.Wrap(errors.ErrInput, "expiration time is required")
	}
	return errors.Wrap(e.ExpiresAt.Validate(), "expires at")
}

// Marshal encodes the record into its fixed binary layout.
func (e *Escrow) Marshal() ([]byte, error) {
	raw := make([]byte, 0, recordFixedSize+len(e.CorrelationID))
	raw = appendAddress(raw, e.Sender)
	raw = appendAddress(raw, e.Recipient)
	raw = appendAddress(raw, e.Platform)

	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], uint64(e.Amount))
	raw = append(raw, scratch[:]...)

	binary.BigEndian.PutUint16(scratch[:2], uint16(len(e.CorrelationID)))
	raw = append(raw, scratch[:2]...)
	raw = append(raw, e.CorrelationID...)

	raw = append(raw, byte(e.Status))

	binary.BigEndian.PutUint64(scratch[:], uint64(e.CreatedAt))
	raw = append(raw, scratch[:]...)
	binary.BigEndian.PutUint64(scratch[:], uint64(e.ExpiresAt))
	raw = append(raw, scratch[:]...)

	raw = append(raw, e.Bump)
	return raw, nil
}

// Unmarshal restores the record from its binary layout.
func (e *Escrow) Unmarshal(raw []byte) error {
	if len(raw) < recordFixedSize {
		return errors.Wrapf(errors.ErrInput, "record payload %d bytes", len(raw))
	}
	e.Sender = readAddress(raw[:custody.AddressLength])
	e.Recipient = readAddress(raw[custody.AddressLength : 2*custody.AddressLength])
	e.Platform = readAddress(raw[2*custody.AddressLength : 3*custody.AddressLength])
	cur := 3 * custody.AddressLength

	e.Amount = coin.Amount(binary.BigEndian.Uint64(raw[cur:]))
	cur += 8

	corrLen := int(binary.BigEndian.Uint16(raw[cur:]))
	cur += 2
	if corrLen > maxCorrelationIDSize || len(raw) != recordFixedSize+corrLen {
		return errors.Wrapf(errors.ErrInput, "correlation id %d bytes", corrLen)
	}
	e.CorrelationID = append([]byte(nil), raw[cur:cur+corrLen]...)
	cur += corrLen

	e.Status = Status(raw[cur])
	cur++

	e.CreatedAt = custody.UnixTime(binary.BigEndian.Uint64(raw[cur:]))
	cur += 8
	e.ExpiresAt = custody.UnixTime(binary.BigEndian.Uint64(raw[cur:]))
	cur += 8

	e.Bump = raw[cur]
	return nil
}

var zeroAddress = make([]byte, custody.AddressLength)

// appendAddress writes the address, using the all-zero value for an unset
// identity.
func appendAddress(raw []byte, a custody.Address) []byte {
	if a == nil {
		return append(raw, zeroAddress...)
	}
	return append(raw, a...)
}

// readAddress maps the persisted all-zero value back to an unset identity.
func readAddress(raw []byte) custody.Address {
	if bytes.Equal(raw, zeroAddress) {
		return nil
	}
	return custody.Address(raw).Clone()
}

// Key derives the storage key of an escrow from the caller supplied
// correlation value and the sender identity. Repeated creation requests
// with identical inputs resolve to the same record.
func Key(correlationID []byte, sender custody.Address) []byte {
	h := sha256.New()
	h.Write([]byte("escrow"))
	h.Write(correlationID)
	h.Write(sender)
	return h.Sum(nil)
}

// Condition returns the condition controlling the custody account of the
// escrow stored under the given key.
func Condition(key []byte) custody.Condition {
	return custody.NewCondition("escrow", "seed", key)
}

// NewBucket returns the bucket holding all escrow records.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{})
}
