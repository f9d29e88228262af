package cash

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/x"
)

const sendTxCost int64 = 100

// RegisterRoutes will instantiate and register all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, ctrl CoinMover) {
	r.Handle(&SendMsg{}, SendHandler{auth: auth, ctrl: ctrl})
}

// SendHandler moves value between two wallets on behalf of the source.
type SendHandler struct {
	auth x.Authenticator
	ctrl CoinMover
}

var _ custody.Handler = SendHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h SendHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the amount from source to destination if
// all preconditions are met.
func (h SendHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.MoveCoins(db, msg.Src, msg.Dest, msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h SendHandler) validate(ctx custody.Context, tx custody.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Source must authorize the transfer.
	if !h.auth.HasAddress(ctx, msg.Src) {
		return nil, errors.ErrUnauthorized
	}
	return &msg, nil
}
