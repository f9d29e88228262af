package app

import (
	"context"
	"testing"

	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &custodytest.Handler{}
	r.Handle(&custodytest.Msg{RoutePath: "test/good"}, h)

	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/good"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = r.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/secret"}}
	db := store.MemStore()

	_, err := r.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRouterInvalidPath(t *testing.T) {
	r := NewRouter()
	assert.Panics(t, func() {
		r.Handle(&custodytest.Msg{RoutePath: "Not Valid!"}, &custodytest.Handler{})
	})
}

func TestRouterDuplicateRoute(t *testing.T) {
	r := NewRouter()
	r.Handle(&custodytest.Msg{RoutePath: "test/dup"}, &custodytest.Handler{})
	assert.Panics(t, func() {
		r.Handle(&custodytest.Msg{RoutePath: "test/dup"}, &custodytest.Handler{})
	})
}
