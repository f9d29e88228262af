package escrow

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/orm"
	"github.com/mailpay/custody/x/cash"
)

// Share is one leg of a disbursement.
type Share struct {
	To     custody.Address
	Amount coin.Amount
}

// Controller executes the balance movements decided by the handlers. Every
// method mutates the record and the ledger inside the caller's cache wrap,
// so both changes commit together or not at all.
type Controller struct {
	cash   cash.Controller
	bucket orm.ModelBucket
}

func NewController(cash cash.Controller, bucket orm.ModelBucket) Controller {
	return Controller{
		cash:   cash,
		bucket: bucket,
	}
}

// Deposit moves the gross amount plus the minimum reserve from the source
// wallet into the custody account and persists the freshly created record.
func (c Controller) Deposit(db custody.KVStore, esc *Escrow, key []byte, reserve coin.Amount) error {
	total, err := esc.Amount.Add(reserve)
	if err != nil {
		return errors.Wrap(err, "amount with reserve")
	}
	if err := c.cash.MoveCoins(db, esc.Sender, Condition(key).Address(), total); err != nil {
		return err
	}
	return c.bucket.Put(db, key, esc)
}

// Disburse pays the given shares out of the custody account and moves the
// record into the given terminal status, as one unit.
//
// The record must still be Pending at this very moment; a concurrent
// transition that won the race is reported as ErrEscrowNotPending. The
// custody account must hold the sum of all shares on top of the minimum
// reserve; if it does not, this is a programming-error-class fault and the
// whole request is aborted rather than any share truncated.
func (c Controller) Disburse(db custody.KVStore, esc *Escrow, key []byte, reserve coin.Amount, shares []Share, status Status) error {
	if esc.Status != StatusPending {
		return errors.Wrapf(ErrEscrowNotPending, "status %s", esc.Status)
	}
	if !status.Terminal() {
		return errors.Wrapf(errors.ErrHuman, "disburse into %s", status)
	}

	source := Condition(key).Address()
	balance, err := c.cash.Balance(db, source)
	if err != nil {
		return err
	}
	disbursable, err := balance.Sub(reserve)
	if err != nil {
		return errors.Wrapf(ErrInsufficientFunds, "balance %s below reserve %s", balance, reserve)
	}

	var total coin.Amount
	for _, s := range shares {
		if total, err = total.Add(s.Amount); err != nil {
			return errors.Wrap(err, "share sum")
		}
	}
	if total > disbursable {
		return errors.Wrapf(ErrInsufficientFunds, "shares %s exceed disbursable %s", total, disbursable)
	}

	for _, s := range shares {
		if s.Amount.IsZero() {
			continue
		}
		if err := c.cash.MoveCoins(db, source, s.To, s.Amount); err != nil {
			return err
		}
	}

	esc.Status = status
	return c.bucket.Put(db, key, esc)
}

// Purge deletes a terminal record, returning whatever the custody account
// still holds, the minimum reserve included, to the sender.
func (c Controller) Purge(db custody.KVStore, esc *Escrow, key []byte) error {
	if !esc.Status.Terminal() {
		return errors.Wrapf(errors.ErrState, "cannot purge %s escrow", esc.Status)
	}
	source := Condition(key).Address()
	balance, err := c.cash.Balance(db, source)
	if err != nil {
		return err
	}
	if balance.IsPositive() {
		if err := c.cash.MoveCoins(db, source, esc.Sender, balance); err != nil {
			return err
		}
	}
	return c.bucket.Delete(db, key)
}
