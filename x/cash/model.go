package cash

import (
	"encoding/binary"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/orm"
)

// walletSize is the persisted wallet payload: a single 8 byte amount.
const walletSize = 8

// Wallet holds the balance of a single ledger account. Wallets are keyed by
// the account address, so the model itself carries only the amount.
type Wallet struct {
	Amount coin.Amount
}

var _ orm.Model = (*Wallet)(nil)

// Validate is a noop. Any representable amount is a valid balance.
func (w *Wallet) Validate() error {
	return nil
}

// Marshal encodes the wallet into its fixed binary form.
func (w *Wallet) Marshal() ([]byte, error) {
	raw := make([]byte, walletSize)
	binary.BigEndian.PutUint64(raw, uint64(w.Amount))
	return raw, nil
}

// Unmarshal restores the wallet from its binary form.
func (w *Wallet) Unmarshal(raw []byte) error {
	if len(raw) != walletSize {
		return errors.Wrapf(errors.ErrInput, "wallet payload %d bytes", len(raw))
	}
	w.Amount = coin.Amount(binary.BigEndian.Uint64(raw))
	return nil
}

// NewBucket returns the bucket holding all wallets, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("cash", &Wallet{})
}

// loadWallet fetches the wallet of given address. A missing wallet is
// returned as an empty one, creation happens on first credit.
func loadWallet(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, addr custody.Address) (*Wallet, error) {
	var w Wallet
	switch err := bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}
