package compute

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/gconf"
)

const configSize = 2 * custody.AddressLength

// Configuration names the cluster identity allowed to deliver callbacks and
// the owner allowed to rotate it.
type Configuration struct {
	Owner   custody.Address `json:"owner"`
	Cluster custody.Address `json:"cluster"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner address")
	}
	if err := c.Cluster.Validate(); err != nil {
		return errors.Wrap(err, "cluster address")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	raw := make([]byte, 0, configSize)
	raw = append(raw, c.Owner...)
	raw = append(raw, c.Cluster...)
	return raw, nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	if len(raw) != configSize {
		return errors.Wrapf(errors.ErrInput, "configuration payload %d bytes", len(raw))
	}
	c.Owner = custody.Address(raw[:custody.AddressLength]).Clone()
	c.Cluster = custody.Address(raw[custody.AddressLength:]).Clone()
	return nil
}

func loadConf(db custody.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "compute", &conf); err != nil {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

// UpdateConfigurationMsg replaces the stored compute configuration. Only the
// owner declared by the current configuration may deliver it.
type UpdateConfigurationMsg struct {
	Patch Configuration
}

var _ custody.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "compute/update_config"
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
