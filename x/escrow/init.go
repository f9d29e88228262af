package escrow

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/gconf"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ custody.Initializer = (*Initializer)(nil)

// FromGenesis will parse initial escrow configuration from genesis and save
// it to the database.
func (*Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	return gconf.InitConfig(db, opts, "escrow", &Configuration{})
}
