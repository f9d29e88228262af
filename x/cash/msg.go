package cash

import (
	"encoding/binary"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
)

const (
	pathSendMsg = "cash/send"

	maxMemoSize = 128
)

var _ custody.Msg = (*SendMsg)(nil)

// SendMsg is a request to move the given amount between two plain wallets.
type SendMsg struct {
	Src    custody.Address
	Dest   custody.Address
	Amount coin.Amount
	Memo   string
}

// Path fulfills custody.Msg interface to allow routing
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if err := m.Src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := m.Dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	if !m.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Wrapf(errors.ErrInput, "memo %s", m.Memo)
	}
	return nil
}

// Marshal encodes the message into its fixed-prefix binary form.
func (m *SendMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, 2*custody.AddressLength+8+len(m.Memo))
	raw = append(raw, m.Src...)
	raw = append(raw, m.Dest...)
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], uint64(m.Amount))
	raw = append(raw, amt[:]...)
	raw = append(raw, m.Memo...)
	return raw, nil
}

// Unmarshal restores the message from its binary form.
func (m *SendMsg) Unmarshal(raw []byte) error {
	fixed := 2*custody.AddressLength + 8
	if len(raw) < fixed {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.Src = custody.Address(raw[:custody.AddressLength]).Clone()
	m.Dest = custody.Address(raw[custody.AddressLength : 2*custody.AddressLength]).Clone()
	m.Amount = coin.Amount(binary.BigEndian.Uint64(raw[2*custody.AddressLength : fixed]))
	m.Memo = string(raw[fixed:])
	return nil
}
