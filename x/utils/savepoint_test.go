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

// writingHandler writes the key, value pair and returns the stored error.
type writingHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ custody.Handler = (*writingHandler)(nil)

func (h *writingHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.err
}

func (h *writingHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.err
}

func TestSavepointDeliverCommits(t *testing.T) {
	db := store.MemStore()
	h := &writingHandler{key: []byte("k"), value: []byte("v")}

	sp := NewSavepoint().OnDeliver()
	_, err := sp.Deliver(context.Background(), db, &custodytest.Tx{}, h)
	assert.Nil(t, err)

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSavepointDeliverRollsBack(t *testing.T) {
	db := store.MemStore()
	h := &writingHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrHuman}

	sp := NewSavepoint().OnDeliver()
	_, err := sp.Deliver(context.Background(), db, &custodytest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	if got != nil {
		t.Fatalf("failed delivery left a write behind: %q", got)
	}
}

func TestSavepointDisabledPassesThrough(t *testing.T) {
	db := store.MemStore()
	h := &writingHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrHuman}

	// without OnDeliver the write goes straight to the store even on error
	sp := NewSavepoint()
	_, err := sp.Deliver(context.Background(), db, &custodytest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSavepointCheckRollsBack(t *testing.T) {
	db := store.MemStore()
	h := &writingHandler{key: []byte("k"), value: []byte("v"), err: errors.ErrHuman}

	sp := NewSavepoint().OnCheck()
	_, err := sp.Check(context.Background(), db, &custodytest.Tx{}, h)
	assert.IsErr(t, errors.ErrHuman, err)

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	if got != nil {
		t.Fatalf("failed check left a write behind: %q", got)
	}
}
