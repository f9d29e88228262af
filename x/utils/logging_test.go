package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

func TestLoggingPassesResultsThrough(t *testing.T) {
	var buf bytes.Buffer
	ctx := custody.WithLogger(context.Background(), log.NewTMLogger(&buf))

	l := NewLogging()
	h := &custodytest.Handler{
		DeliverResult: custody.DeliverResult{Log: "all good"},
	}

	res, err := l.Deliver(ctx, store.MemStore(), &custodytest.Tx{}, h)
	assert.Nil(t, err)
	assert.Equal(t, "all good", res.Log)
	assert.Equal(t, 1, h.DeliverCallCount())

	out := buf.String()
	if !strings.Contains(out, "all good") {
		t.Fatalf("result log not written: %q", out)
	}
	if !strings.Contains(out, "duration") {
		t.Fatalf("duration not written: %q", out)
	}
}

func TestLoggingPassesErrorsThrough(t *testing.T) {
	var buf bytes.Buffer
	ctx := custody.WithLogger(context.Background(), log.NewTMLogger(&buf))

	l := NewLogging()
	h := &custodytest.Handler{
		CheckErr:   errors.Wrap(errors.ErrState, "check boom"),
		DeliverErr: errors.Wrap(errors.ErrState, "deliver boom"),
	}

	if _, err := l.Check(ctx, store.MemStore(), &custodytest.Tx{}, h); !errors.ErrState.Is(err) {
		t.Fatalf("check error not passed through: %+v", err)
	}
	if _, err := l.Deliver(ctx, store.MemStore(), &custodytest.Tx{}, h); !errors.ErrState.Is(err) {
		t.Fatalf("deliver error not passed through: %+v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "check boom") || !strings.Contains(out, "deliver boom") {
		t.Fatalf("errors not written: %q", out)
	}
}

func TestLoggingWithDefaultLogger(t *testing.T) {
	// a context without a logger falls back to the nop default
	l := NewLogging()
	h := &custodytest.Handler{}

	_, err := l.Check(context.Background(), store.MemStore(), &custodytest.Tx{}, h)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
}
