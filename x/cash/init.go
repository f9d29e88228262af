package cash

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from the genesis file.
// Addresses are hex encoded.
type GenesisAccount struct {
	Address custody.Address `json:"address"`
	Amount  coin.Amount     `json:"amount"`
}

// Initializer fulfils the custody.Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts custody.Options, kv custody.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	ctrl := NewController(NewBucket())
	for _, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return err
		}
		if err := ctrl.IssueCoins(kv, acct.Address, acct.Amount); err != nil {
			return err
		}
	}
	return nil
}
