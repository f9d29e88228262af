package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/mailpay/custody/errors"
)

// Model groups together key value pair of a persisted model.
type Model struct {
	Key   []byte
	Value []byte
}

// SliceIterator wraps an Iterator over a slice of models
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates a new Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{
		data: data,
	}
}

// Next returns the next key value pair, or ErrIteratorDone when exhausted.
func (s *SliceIterator) Next() (key, value []byte, err error) {
	if s.idx >= len(s.data) {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[s.idx]
	s.idx++
	return m.Key, m.Value, nil
}

// Release releases the Iterator.
func (s *SliceIterator) Release() {
	s.data = nil
	s.idx = 0
}

// mergeIterators combines a snapshot of cached items with the backing store
// iterator. Cached items shadow backing entries of the same key and cached
// deletion markers hide them. Both inputs must be ordered the same
// direction. The parent iterator is fully drained and released.
func mergeIterators(cached []btree.Item, parent Iterator, reverse bool) (Iterator, error) {
	defer parent.Release()

	var merged []Model

	// after reports whether a comes strictly after b in iteration order
	after := func(a, b []byte) bool {
		if reverse {
			return bytes.Compare(a, b) < 0
		}
		return bytes.Compare(a, b) > 0
	}

	appendCached := func(item btree.Item) {
		if set, ok := item.(setItem); ok {
			merged = append(merged, Model{Key: set.Key(), Value: set.value})
		}
		// deletedItem is dropped and hides any parent entry handled
		// by the key comparison in the main loop
	}

	key, value, err := parent.Next()
	for _, item := range cached {
		ikey := item.(keyer).Key()

		// emit all parent entries strictly before this cached item
		for err == nil && after(ikey, key) {
			merged = append(merged, Model{Key: key, Value: value})
			key, value, err = parent.Next()
		}
		if err != nil && !errors.ErrIteratorDone.Is(err) {
			return nil, err
		}
		// parent entry with the same key is shadowed
		if err == nil && bytes.Equal(ikey, key) {
			key, value, err = parent.Next()
		}
		appendCached(item)
	}

	// drain the rest of the parent
	for err == nil {
		merged = append(merged, Model{Key: key, Value: value})
		key, value, err = parent.Next()
	}
	if !errors.ErrIteratorDone.Is(err) {
		return nil, err
	}

	return NewSliceIterator(merged), nil
}
