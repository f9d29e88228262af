package orm

import (
	"bytes"
	"testing"

	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/store"
)

func TestSequenceCounting(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("cnt", "id")

	for i := int64(1); i <= 5; i++ {
		got, err := s.NextInt(db)
		assert.Nil(t, err)
		assert.Equal(t, i, got)
	}

	latest, raw, err := s.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(5), latest)
	assert.Equal(t, int64(5), DecodeSequence(raw))
}

func TestSequenceValuesSort(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("cnt", "id")

	prev, err := s.NextVal(db)
	assert.Nil(t, err)
	for i := 0; i < 10; i++ {
		next, err := s.NextVal(db)
		assert.Nil(t, err)
		if bytes.Compare(prev, next) >= 0 {
			t.Fatalf("sequence values out of order: %x then %x", prev, next)
		}
		prev = next
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("cnt", "a")
	b := NewSequence("cnt", "b")

	if _, err := a.NextInt(db); err != nil {
		t.Fatalf("next: %+v", err)
	}
	if _, err := a.NextInt(db); err != nil {
		t.Fatalf("next: %+v", err)
	}
	got, err := b.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), got)
}
