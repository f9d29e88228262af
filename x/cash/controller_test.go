package cash

import (
	"testing"

	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

func TestMoveCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, 100))

	if err := ctrl.MoveCoins(db, alice, bob, 40); err != nil {
		t.Fatalf("move: %+v", err)
	}

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(60), got)

	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(40), got)
}

func TestMoveCoinsInsufficient(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, 10))

	err := ctrl.MoveCoins(db, alice, bob, 11)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	// nothing moved
	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(10), got)
	got, err = ctrl.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(0), got)
}

func TestMoveCoinsFromEmptyWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	err := ctrl.MoveCoins(db, alice, bob, 1)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
}

func TestMoveCoinsRequiresPositiveAmount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	err := ctrl.MoveCoins(db, alice, bob, 0)
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestMoveCoinsValidatesAddresses(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()

	err := ctrl.MoveCoins(db, nil, alice, 1)
	assert.IsErr(t, errors.ErrInput, err)
	err = ctrl.MoveCoins(db, alice, []byte("too-short"), 1)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestBalanceOfMissingWallet(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	got, err := ctrl.Balance(db, custodytest.NewCondition().Address())
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(0), got)
}

func TestIssueCoinsAccumulates(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	assert.Nil(t, ctrl.IssueCoins(db, alice, 7))
	assert.Nil(t, ctrl.IssueCoins(db, alice, 3))

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, coin.Amount(10), got)
}

func TestIssueCoinsOverflow(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())

	alice := custodytest.NewCondition().Address()
	assert.Nil(t, ctrl.IssueCoins(db, alice, coin.MaxAmount))
	err := ctrl.IssueCoins(db, alice, 1)
	assert.IsErr(t, errors.ErrOverflow, err)
}
