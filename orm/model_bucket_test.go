package orm

import (
	"encoding/binary"
	"testing"

	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

// counter is a minimal model for bucket tests.
type counter struct {
	Count int64
}

var _ Model = (*counter)(nil)

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(c.Count))
	return raw, nil
}

func (c *counter) Unmarshal(raw []byte) error {
	if len(raw) != 8 {
		return errors.Wrapf(errors.ErrInput, "counter payload %d bytes", len(raw))
	}
	c.Count = int64(binary.BigEndian.Uint64(raw))
	return nil
}

// badModel is of a different type than the bucket holds.
type badModel struct{ counter }

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	if err := b.Put(db, []byte("two"), &counter{Count: 2}); err != nil {
		t.Fatalf("put: %+v", err)
	}

	var c counter
	if err := b.One(db, []byte("two"), &c); err != nil {
		t.Fatalf("one: %+v", err)
	}
	assert.Equal(t, int64(2), c.Count)
}

func TestModelBucketOneMissing(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	var c counter
	err := b.One(db, []byte("does-not-exist"), &c)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestModelBucketWrongType(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	err := b.Put(db, []byte("k"), &badModel{})
	assert.IsErr(t, errors.ErrType, err)

	var bad badModel
	err = b.One(db, []byte("k"), &bad)
	assert.IsErr(t, errors.ErrType, err)
}

func TestModelBucketPutRequiresKey(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	err := b.Put(db, nil, &counter{Count: 1})
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	err := b.Put(db, []byte("k"), &counter{Count: -1})
	assert.IsErr(t, errors.ErrState, err)
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnt", &counter{})

	if err := b.Put(db, []byte("k"), &counter{Count: 1}); err != nil {
		t.Fatalf("put: %+v", err)
	}
	assert.Nil(t, b.Has(db, []byte("k")))

	if err := b.Delete(db, []byte("k")); err != nil {
		t.Fatalf("delete: %+v", err)
	}
	assert.IsErr(t, errors.ErrNotFound, b.Has(db, []byte("k")))

	// deleting a missing entity is an error
	assert.IsErr(t, errors.ErrNotFound, b.Delete(db, []byte("k")))
}

func TestModelBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa", &counter{})
	b := NewModelBucket("bbb", &counter{})

	if err := a.Put(db, []byte("k"), &counter{Count: 7}); err != nil {
		t.Fatalf("put: %+v", err)
	}

	var c counter
	assert.IsErr(t, errors.ErrNotFound, b.One(db, []byte("k"), &c))
}
