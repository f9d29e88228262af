package app

import (
	"context"
	"testing"

	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/store"
)

func TestChainOrder(t *testing.T) {
	d1 := &custodytest.Decorator{}
	d2 := &custodytest.Decorator{}
	h := &custodytest.Handler{}

	stack := ChainDecorators(d1, nil, d2).WithHandler(h)

	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "test/chain"}}
	db := store.MemStore()

	_, err := stack.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)

	assert.Equal(t, 2, d1.CallCount())
	assert.Equal(t, 2, d2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainWithoutDecorators(t *testing.T) {
	h := &custodytest.Handler{}
	stack := ChainDecorators().WithHandler(h)

	_, err := stack.Deliver(context.Background(), store.MemStore(), &custodytest.Tx{})
	assert.Nil(t, err)
	assert.Equal(t, 1, h.DeliverCallCount())
}
