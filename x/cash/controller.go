package cash

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/orm"
)

// CoinMover is the capability most extensions need: moving value between two
// ledger accounts.
type CoinMover interface {
	// MoveCoins removes funds from the source account and adds them to
	// the destination account. Returned error means no change happened;
	// the surrounding cache wrap guarantees a partial move is never
	// persisted.
	MoveCoins(db custody.KVStore, src custody.Address, dest custody.Address, amount coin.Amount) error
}

// Balancer answers the current balance of an account.
type Balancer interface {
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error)
}

// Controller is the full interface of the ledger adapter.
type Controller interface {
	CoinMover
	Balancer
}

// CashController implements the ledger on top of the wallet bucket.
type CashController struct {
	bucket orm.ModelBucket
}

var _ Controller = CashController{}

// NewController returns a controller using the given bucket to store
// wallets.
func NewController(bucket orm.ModelBucket) CashController {
	return CashController{bucket: bucket}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient coins, it fails.
func (c CashController) MoveCoins(db custody.KVStore, src custody.Address, dest custody.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := loadWallet(db, c.bucket, src)
	if err != nil {
		return err
	}
	remaining, err := sender.Amount.Sub(amount)
	if err != nil {
		return errors.Wrapf(errors.ErrInsufficientAmount, "wallet %s holds %s", src, sender.Amount)
	}

	recipient, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	credited, err := recipient.Amount.Add(amount)
	if err != nil {
		return err
	}

	sender.Amount = remaining
	recipient.Amount = credited

	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "cannot store sender")
	}
	return errors.Wrap(c.bucket.Put(db, dest, recipient), "cannot store recipient")
}

// Balance returns the amount held by given account. A missing wallet is a
// zero balance, not an error.
func (c CashController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Amount, error) {
	w, err := loadWallet(db, c.bucket, addr)
	if err != nil {
		return 0, err
	}
	return w.Amount, nil
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. It mints value and is reserved for the genesis
// initialization path.
func (c CashController) IssueCoins(db custody.KVStore, dest custody.Address, amount coin.Amount) error {
	recipient, err := loadWallet(db, c.bucket, dest)
	if err != nil {
		return err
	}
	credited, err := recipient.Amount.Add(amount)
	if err != nil {
		return err
	}
	recipient.Amount = credited
	return c.bucket.Put(db, dest, recipient)
}
