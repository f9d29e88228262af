package utils

import (
	"context"
	"testing"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

type panicHandler struct{}

var _ custody.Handler = panicHandler{}

func (panicHandler) Check(custody.Context, custody.KVStore, custody.Tx) (*custody.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(custody.Context, custody.KVStore, custody.Tx) (*custody.DeliverResult, error) {
	panic("deliver panic")
}

func TestRecoveryTurnsPanicIntoError(t *testing.T) {
	r := NewRecovery()
	db := store.MemStore()
	tx := &custodytest.Tx{}

	_, err := r.Check(context.Background(), db, tx, panicHandler{})
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(context.Background(), db, tx, panicHandler{})
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestRecoveryPassesResultsThrough(t *testing.T) {
	r := NewRecovery()
	h := &custodytest.Handler{}

	_, err := r.Deliver(context.Background(), store.MemStore(), &custodytest.Tx{}, h)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
