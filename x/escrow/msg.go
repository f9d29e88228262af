package escrow

import (
	"encoding/binary"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
)

const (
	pathCreateMsg  = "escrow/create"
	pathReleaseMsg = "escrow/release"
	pathRefundMsg  = "escrow/refund"
	pathClaimMsg   = "escrow/claim"
	pathPurgeMsg   = "escrow/purge"

	escrowIDSize = 32
)

var (
	_ custody.Msg = (*CreateMsg)(nil)
	_ custody.Msg = (*ReleaseMsg)(nil)
	_ custody.Msg = (*RefundMsg)(nil)
	_ custody.Msg = (*ClaimMsg)(nil)
	_ custody.Msg = (*PurgeMsg)(nil)
)

// CreateMsg opens a new escrow. Src defaults to the main transaction signer
// when not set. Recipient may be left unset to defer the binding to the
// first claim. Platform enables the fee split when set.
type CreateMsg struct {
	Src           custody.Address
	Recipient     custody.Address
	Platform      custody.Address
	Amount        coin.Amount
	CorrelationID []byte
}

func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if m.Src != nil {
		if err := m.Src.Validate(); err != nil {
			return errors.Wrap(err, "src")
		}
	}
	if m.Recipient != nil {
		if err := m.Recipient.Validate(); err != nil {
			return errors.Wrap(err, "recipient")
		}
	}
	if m.Platform != nil {
		if err := m.Platform.Validate(); err != nil {
			return errors.Wrap(err, "platform")
		}
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if len(m.CorrelationID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "correlation id")
	}
	if len(m.CorrelationID) > maxCorrelationIDSize {
		return errors.Wrapf(errors.ErrInput, "correlation id %d bytes", len(m.CorrelationID))
	}
	return nil
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, 3*custody.AddressLength+8+len(m.CorrelationID))
	raw = appendAddress(raw, m.Src)
	raw = appendAddress(raw, m.Recipient)
	raw = appendAddress(raw, m.Platform)
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], uint64(m.Amount))
	raw = append(raw, amt[:]...)
	raw = append(raw, m.CorrelationID...)
	return raw, nil
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	fixed := 3*custody.AddressLength + 8
	if len(raw) < fixed {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.Src = readAddress(raw[:custody.AddressLength])
	m.Recipient = readAddress(raw[custody.AddressLength : 2*custody.AddressLength])
	m.Platform = readAddress(raw[2*custody.AddressLength : 3*custody.AddressLength])
	m.Amount = coin.Amount(binary.BigEndian.Uint64(raw[3*custody.AddressLength:]))
	m.CorrelationID = append([]byte(nil), raw[fixed:]...)
	return nil
}

// ReleaseMsg pays out a pending escrow to its bound recipient.
type ReleaseMsg struct {
	EscrowID []byte
}

func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

func (m *ReleaseMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

func (m *ReleaseMsg) Marshal() ([]byte, error) {
	return append([]byte(nil), m.EscrowID...), nil
}

func (m *ReleaseMsg) Unmarshal(raw []byte) error {
	m.EscrowID = append([]byte(nil), raw...)
	return nil
}

// RefundMsg returns the full escrowed amount to the sender. The sender may
// refund at any time; everyone else only after the deadline passed.
type RefundMsg struct {
	EscrowID []byte
}

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return append([]byte(nil), m.EscrowID...), nil
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	m.EscrowID = append([]byte(nil), raw...)
	return nil
}

// ClaimMsg binds the caller as recipient of an escrow created without one
// and pays them out in the same step. Sender and CorrelationID must repeat
// the values of the record being claimed, proving the caller answers the
// right request.
type ClaimMsg struct {
	EscrowID      []byte
	Sender        custody.Address
	CorrelationID []byte
}

func (ClaimMsg) Path() string {
	return pathClaimMsg
}

func (m *ClaimMsg) Validate() error {
	if err := validateEscrowID(m.EscrowID); err != nil {
		return err
	}
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if len(m.CorrelationID) == 0 {
		return errors.Wrap(errors.ErrEmpty, "correlation id")
	}
	if len(m.CorrelationID) > maxCorrelationIDSize {
		return errors.Wrapf(errors.ErrInput, "correlation id %d bytes", len(m.CorrelationID))
	}
	return nil
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, escrowIDSize+custody.AddressLength+len(m.CorrelationID))
	raw = append(raw, m.EscrowID...)
	raw = appendAddress(raw, m.Sender)
	raw = append(raw, m.CorrelationID...)
	return raw, nil
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	fixed := escrowIDSize + custody.AddressLength
	if len(raw) < fixed {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.EscrowID = append([]byte(nil), raw[:escrowIDSize]...)
	m.Sender = readAddress(raw[escrowIDSize:fixed])
	m.CorrelationID = append([]byte(nil), raw[fixed:]...)
	return nil
}

// PurgeMsg deletes a terminal escrow record and returns the minimum reserve
// to the sender.
type PurgeMsg struct {
	EscrowID []byte
}

func (PurgeMsg) Path() string {
	return pathPurgeMsg
}

func (m *PurgeMsg) Validate() error {
	return validateEscrowID(m.EscrowID)
}

func (m *PurgeMsg) Marshal() ([]byte, error) {
	return append([]byte(nil), m.EscrowID...), nil
}

func (m *PurgeMsg) Unmarshal(raw []byte) error {
	m.EscrowID = append([]byte(nil), raw...)
	return nil
}

func validateEscrowID(id []byte) error {
	if len(id) != escrowIDSize {
		return errors.Wrapf(errors.ErrInput, "escrow id: %X", id)
	}
	return nil
}
