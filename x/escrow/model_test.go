package escrow

import (
	"bytes"
	"testing"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
)

func validEscrow() *Escrow {
	return &Escrow{
		Sender:        custodytest.NewCondition().Address(),
		Recipient:     custodytest.NewCondition().Address(),
		Platform:      custodytest.NewCondition().Address(),
		Amount:        1_000_000_000,
		CorrelationID: []byte("msg-1"),
		Status:        StatusPending,
		CreatedAt:     1_500_000_000,
		ExpiresAt:     1_502_592_000,
		Bump:          0xfe,
	}
}

func TestEscrowValidate(t *testing.T) {
	cases := map[string]struct {
		mod     func(*Escrow)
		wantErr *errors.Error
	}{
		"valid record": {
			mod: func(*Escrow) {},
		},
		"valid without recipient": {
			mod: func(e *Escrow) { e.Recipient = nil },
		},
		"valid without platform": {
			mod: func(e *Escrow) { e.Platform = nil },
		},
		"missing sender": {
			mod:     func(e *Escrow) { e.Sender = nil },
			wantErr: errors.ErrInput,
		},
		"short recipient": {
			mod:     func(e *Escrow) { e.Recipient = []byte("short") },
			wantErr: errors.ErrInput,
		},
		"zero amount": {
			mod:     func(e *Escrow) { e.Amount = 0 },
			wantErr: errors.ErrAmount,
		},
		"empty correlation id": {
			mod:     func(e *Escrow) { e.CorrelationID = nil },
			wantErr: errors.ErrEmpty,
		},
		"oversized correlation id": {
			mod:     func(e *Escrow) { e.CorrelationID = bytes.Repeat([]byte("x"), maxCorrelationIDSize+1) },
			wantErr: errors.ErrInput,
		},
		"unknown status": {
			mod:     func(e *Escrow) { e.Status = 99 },
			wantErr: errors.ErrState,
		},
		"missing expiration": {
			mod:     func(e *Escrow) { e.ExpiresAt = 0 },
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			esc := validEscrow()
			tc.mod(esc)
			err := esc.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestEscrowSerialization(t *testing.T) {
	esc := validEscrow()

	raw, err := esc.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, recordFixedSize+len(esc.CorrelationID), len(raw))

	var got Escrow
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, esc, &got)
}

func TestEscrowSerializationUnsetIdentities(t *testing.T) {
	esc := validEscrow()
	esc.Recipient = nil
	esc.Platform = nil

	raw, err := esc.Marshal()
	assert.Nil(t, err)

	var got Escrow
	assert.Nil(t, got.Unmarshal(raw))
	if got.Recipient != nil {
		t.Fatalf("unset recipient became %q", got.Recipient)
	}
	if got.Platform != nil {
		t.Fatalf("unset platform became %q", got.Platform)
	}
}

func TestEscrowUnmarshalRejectsBadSize(t *testing.T) {
	esc := validEscrow()
	raw, err := esc.Marshal()
	assert.Nil(t, err)

	var got Escrow
	assert.IsErr(t, errors.ErrInput, got.Unmarshal(raw[:recordFixedSize-1]))
	// trailing garbage disagrees with the declared correlation length
	assert.IsErr(t, errors.ErrInput, got.Unmarshal(append(raw, 0)))
}

func TestKeyDerivation(t *testing.T) {
	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	k1 := Key([]byte("msg-1"), alice)
	assert.Equal(t, 32, len(k1))

	// deterministic
	assert.Equal(t, k1, Key([]byte("msg-1"), alice))

	// any input change gives a different key
	if bytes.Equal(k1, Key([]byte("msg-2"), alice)) {
		t.Fatal("correlation id not part of the key")
	}
	if bytes.Equal(k1, Key([]byte("msg-1"), bob)) {
		t.Fatal("sender not part of the key")
	}
}

func TestConditionAddress(t *testing.T) {
	key := Key([]byte("msg-1"), custodytest.NewCondition().Address())
	addr := Condition(key).Address()
	assert.Nil(t, addr.Validate())
	assert.Equal(t, custody.AddressLength, len(addr))
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	for _, s := range []Status{StatusReleased, StatusRefunded, StatusWithheld, StatusCompleted} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}
