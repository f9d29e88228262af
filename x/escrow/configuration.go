package escrow

import (
	"encoding/binary"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/gconf"
)

const (
	// DefaultFeeBps is the platform fee of fee-charging escrows, in
	// basis points of the gross amount.
	DefaultFeeBps uint32 = 200

	// DefaultTimeout is how long an escrow stays claimable before any
	// caller may refund it, in seconds.
	DefaultTimeout int64 = 30 * 24 * 60 * 60
)

const configSize = custody.AddressLength + 4 + 8 + 8

// Configuration is the escrow package policy: the fee rate, the refund
// timeout, the minimum reserve every custody account must retain while its
// record exists, and the owner allowed to change all of this.
type Configuration struct {
	Owner          custody.Address `json:"owner"`
	FeeBps         uint32          `json:"fee_bps"`
	Timeout        int64           `json:"timeout"`
	MinimumReserve coin.Amount     `json:"minimum_reserve"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner address")
	}
	if c.FeeBps > 10000 {
		return errors.Wrapf(errors.ErrInput, "fee %d basis points", c.FeeBps)
	}
	if c.Timeout <= 0 {
		return errors.Wrap(errors.ErrInput, "timeout must be positive")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 0, configSize)
	raw = appendAddress(raw, c.Owner)
	var scratch [8]byte
	binary.BigEndian.PutUint32(scratch[:4], c.FeeBps)
	raw = append(raw, scratch[:4]...)
	binary.BigEndian.PutUint64(scratch[:], uint64(c.Timeout))
	raw = append(raw, scratch[:]...)
	binary.BigEndian.PutUint64(scratch[:], uint64(c.MinimumReserve))
	raw = append(raw, scratch[:]...)
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) != configSize {
		return errors.Wrapf(errors.ErrInput, "configuration payload %d bytes", len(raw))
	}
	c.Owner = readAddress(raw[:custody.AddressLength])
	cur := custody.AddressLength
	c.FeeBps = binary.BigEndian.Uint32(raw[cur:])
	cur += 4
	c.Timeout = int64(binary.BigEndian.Uint64(raw[cur:]))
	cur += 8
	c.MinimumReserve = coin.Amount(binary.BigEndian.Uint64(raw[cur:]))
	return nil
}

func loadConf(db custody.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "escrow", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

// UpdateConfigurationMsg replaces the stored escrow configuration. Only the
// owner declared by the current configuration may deliver it.
type UpdateConfigurationMsg struct {
	Patch Configuration
}

var _ custody.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "escrow/update_config"
}

func (m *UpdateConfigurationMsg) Validate() error {
	return m.Patch.Validate()
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return m.Patch.Marshal()
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	return m.Patch.Unmarshal(raw)
}
