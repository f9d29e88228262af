package cash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/errors"
)

func TestSendMsgValidate(t *testing.T) {
	alice := custodytest.NewCondition().Address()
	bob := custodytest.NewCondition().Address()

	msg := &SendMsg{Src: alice, Dest: bob, Amount: 10}
	assert.NoError(t, msg.Validate())

	msg = &SendMsg{Src: alice, Dest: bob, Amount: 10, Memo: "ok"}
	assert.NoError(t, msg.Validate())

	msg = &SendMsg{Dest: bob, Amount: 10}
	assert.True(t, errors.ErrInput.Is(msg.Validate()), "missing source")

	msg = &SendMsg{Src: alice, Dest: bob}
	assert.True(t, errors.ErrAmount.Is(msg.Validate()), "zero amount")

	msg = &SendMsg{Src: alice, Dest: bob, Amount: 10, Memo: strings.Repeat("x", maxMemoSize+1)}
	assert.True(t, errors.ErrInput.Is(msg.Validate()), "oversized memo")
}

func TestSendMsgSerialization(t *testing.T) {
	msg := &SendMsg{
		Src:    custodytest.NewCondition().Address(),
		Dest:   custodytest.NewCondition().Address(),
		Amount: 1_000_000,
		Memo:   "rent for june",
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)

	var got SendMsg
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)
}

func TestSendMsgUnmarshalRejectsShortPayload(t *testing.T) {
	var got SendMsg
	err := got.Unmarshal([]byte("too short"))
	assert.True(t, errors.ErrInput.Is(err))
}
