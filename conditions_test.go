package custody

import (
	"encoding/json"
	"testing"

	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
)

func TestNewCondition(t *testing.T) {
	c := NewCondition("escrow", "seed", []byte{1, 2, 3})
	assert.Nil(t, c.Validate())

	ext, typ, data, err := c.Parse()
	assert.Nil(t, err)
	assert.Equal(t, "escrow", ext)
	assert.Equal(t, "seed", typ)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestConditionValidate(t *testing.T) {
	cases := map[string]struct {
		cond    Condition
		wantErr *errors.Error
	}{
		"valid": {
			cond: NewCondition("escrow", "seed", []byte("data")),
		},
		"binary data section": {
			// data may contain any bytes, including a newline
			cond: NewCondition("escrow", "seed", []byte{0x20, 0x0a, 0x00}),
		},
		"empty": {
			cond:    Condition{},
			wantErr: errors.ErrInput,
		},
		"missing data": {
			cond:    Condition("escrow/seed/"),
			wantErr: errors.ErrInput,
		},
		"extension too short": {
			cond:    NewCondition("ab", "seed", []byte("data")),
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.cond.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestConditionAddressDeterministic(t *testing.T) {
	a := NewCondition("escrow", "seed", []byte("data")).Address()
	b := NewCondition("escrow", "seed", []byte("data")).Address()
	assert.Nil(t, a.Validate())
	assert.Equal(t, a, b)

	other := NewCondition("escrow", "seed", []byte("DATA")).Address()
	if a.Equals(other) {
		t.Fatal("different conditions must not share an address")
	}
}

func TestNewAddressNilInNilOut(t *testing.T) {
	if addr := NewAddress(nil); addr != nil {
		t.Fatalf("nil data must derive a nil address, got %X", addr)
	}
}

func TestAddressValidate(t *testing.T) {
	addr := NewAddress([]byte("some data"))
	assert.Nil(t, addr.Validate())
	assert.Equal(t, AddressLength, len(addr))

	assert.IsErr(t, errors.ErrInput, Address(nil).Validate())
	assert.IsErr(t, errors.ErrInput, Address([]byte("too short")).Validate())
}

func TestAddressJSONRoundTrip(t *testing.T) {
	addr := NewAddress([]byte("some data"))

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var got Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)
}

func TestAddressUnmarshalJSONEmpty(t *testing.T) {
	var got Address
	assert.Nil(t, json.Unmarshal([]byte(`""`), &got))
	if got != nil {
		t.Fatalf("empty string must decode to a nil address, got %X", got)
	}
}

func TestAddressClone(t *testing.T) {
	addr := NewAddress([]byte("some data"))
	cpy := addr.Clone()
	assert.Equal(t, addr, cpy)

	cpy[0]++
	if addr.Equals(cpy) {
		t.Fatal("clone must be independent of the original")
	}
}
