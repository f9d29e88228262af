package escrow

import (
	"bytes"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/coin"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/gconf"
	"github.com/mailpay/custody/orm"
	"github.com/mailpay/custody/x"
	"github.com/mailpay/custody/x/cash"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	resolveEscrowCost int64 = 0
	purgeEscrowCost   int64 = 50
	updateConfigCost  int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	bucket := NewBucket()
	ctrl := NewController(cashctrl, bucket)

	r.Handle(&CreateMsg{}, CreateEscrowHandler{auth, bucket, ctrl})
	r.Handle(&ReleaseMsg{}, ReleaseEscrowHandler{auth, bucket, ctrl})
	r.Handle(&RefundMsg{}, RefundEscrowHandler{auth, bucket, ctrl})
	r.Handle(&ClaimMsg{}, ClaimEscrowHandler{auth, bucket, ctrl})
	r.Handle(&PurgeMsg{}, PurgeEscrowHandler{auth, bucket, ctrl})
	r.Handle(&UpdateConfigurationMsg{}, UpdateConfigurationHandler{auth})
}

// CreateEscrowHandler allocates the record and takes the funds in custody,
// atomically.
type CreateEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   Controller
}

var _ custody.Handler = CreateEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver moves the amount and the minimum reserve from the sender to the
// custody account if all preconditions are met. A repeated request for an
// already existing record with the same sender and amount is a no-op
// success.
func (h CreateEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	// apply a default for the sender
	sender := msg.Src
	if sender == nil {
		main := x.MainSigner(ctx, h.auth)
		if main == nil {
			return nil, errors.ErrUnauthorized
		}
		sender = main.Address()
	}

	key := Key(msg.CorrelationID, sender)

	var existing Escrow
	switch err := h.bucket.One(db, key, &existing); {
	case err == nil:
		// Re-submission of an already processed request. Absorb only
		// an exact repeat; a parameter mismatch must not be silently
		// swallowed.
		if !existing.Sender.Equals(sender) || existing.Amount != msg.Amount {
			return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %X", key)
		}
		return &custody.DeliverResult{Data: key, Log: "already exists"}, nil
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot load escrow")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	now := blockNow(ctx)

	esc := &Escrow{
		Sender:        sender,
		Recipient:     msg.Recipient,
		Platform:      msg.Platform,
		Amount:        msg.Amount,
		CorrelationID: msg.CorrelationID,
		Status:        StatusPending,
		CreatedAt:     now,
		ExpiresAt:     now + custody.UnixTime(conf.Timeout),
		Bump:          key[len(key)-1],
	}
	if err := h.ctrl.Deposit(db, esc, key, conf.MinimumReserve); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: key}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx custody.Context, tx custody.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Source must authorize this (if not set, defaults to the main
	// signer).
	if msg.Src != nil {
		if !h.auth.HasAddress(ctx, msg.Src) {
			return nil, errors.ErrUnauthorized
		}
	}
	return &msg, nil
}

// ReleaseEscrowHandler pays a pending escrow out to its bound recipient,
// splitting off the platform fee when one is due.
type ReleaseEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   Controller
}

var _ custody.Handler = ReleaseEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ReleaseEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: resolveEscrowCost}, nil
}

// Deliver disburses the fee and net shares and marks the record Released.
func (h ReleaseEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	shares, err := payoutShares(esc, conf.FeeBps)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Disburse(db, esc, msg.EscrowID, conf.MinimumReserve, shares, StatusReleased); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.EscrowID}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ReleaseEscrowHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var esc Escrow
	if err := h.bucket.One(db, msg.EscrowID, &esc); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}

	if esc.Status != StatusPending {
		return nil, nil, errors.Wrapf(ErrEscrowNotPending, "status %s", esc.Status)
	}
	if esc.Recipient == nil {
		return nil, nil, errors.Wrap(ErrInvalidRecipient, "recipient not bound")
	}
	// Only the bound recipient collects; a release is the recipient's
	// proof of response, not something the sender can push.
	if !h.auth.HasAddress(ctx, esc.Recipient) {
		return nil, nil, ErrInvalidRecipient
	}
	if isExpired(esc.ExpiresAt, blockNow(ctx)) {
		return nil, nil, errors.Wrapf(ErrEscrowExpired, "deadline %s", esc.ExpiresAt)
	}
	return &msg, &esc, nil
}

// RefundEscrowHandler returns the full amount to the sender: on the
// sender's own request at any time, or for anyone once the deadline passed.
type RefundEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   Controller
}

var _ custody.Handler = RefundEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h RefundEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: resolveEscrowCost}, nil
}

// Deliver moves the full amount, no fee deducted, back to the sender.
func (h RefundEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, status, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	shares := []Share{{To: esc.Sender, Amount: esc.Amount}}
	if err := h.ctrl.Disburse(db, esc, msg.EscrowID, conf.MinimumReserve, shares, status); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.EscrowID}, nil
}

// validate does all common pre-processing between Check and Deliver. Beside
// the message and the record it returns the terminal status the refund
// resolves into: Withheld for an explicit sender reclaim, Refunded for a
// deadline refund.
func (h RefundEscrowHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*RefundMsg, *Escrow, Status, error) {
	var msg RefundMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	var esc Escrow
	if err := h.bucket.One(db, msg.EscrowID, &esc); err != nil {
		return nil, nil, 0, errors.Wrap(err, "cannot load escrow from the store")
	}

	if esc.Status != StatusPending {
		return nil, nil, 0, errors.Wrapf(ErrEscrowNotPending, "status %s", esc.Status)
	}

	if isExpired(esc.ExpiresAt, blockNow(ctx)) {
		// Past the deadline anyone may trigger the refund on the
		// sender's behalf; the funds can only go back to the sender
		// anyway.
		return &msg, &esc, StatusRefunded, nil
	}
	if h.auth.HasAddress(ctx, esc.Sender) {
		return &msg, &esc, StatusWithheld, nil
	}
	return nil, nil, 0, errors.Wrapf(ErrTimeoutNotReached, "deadline %s", esc.ExpiresAt)
}

// ClaimEscrowHandler binds the caller as the recipient of an escrow created
// without one and pays them out in the same step.
type ClaimEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   Controller
}

var _ custody.Handler = ClaimEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ClaimEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: resolveEscrowCost}, nil
}

// Deliver binds the recipient and disburses as a release would, marking the
// record Completed.
func (h ClaimEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, claimer, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	esc.Recipient = claimer
	shares, err := payoutShares(esc, conf.FeeBps)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Disburse(db, esc, msg.EscrowID, conf.MinimumReserve, shares, StatusCompleted); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.EscrowID}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ClaimEscrowHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ClaimMsg, *Escrow, custody.Address, error) {
	var msg ClaimMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	var esc Escrow
	if err := h.bucket.One(db, msg.EscrowID, &esc); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}

	if esc.Status != StatusPending {
		return nil, nil, nil, errors.Wrapf(ErrEscrowNotPending, "status %s", esc.Status)
	}
	if esc.Recipient != nil {
		return nil, nil, nil, errors.Wrap(ErrInvalidRecipient, "recipient already bound")
	}
	// The claim must repeat the record coordinates. This proves the
	// claimer answers this very request and not a stale or forged one.
	if !esc.Sender.Equals(msg.Sender) {
		return nil, nil, nil, ErrInvalidSender
	}
	if !bytes.Equal(esc.CorrelationID, msg.CorrelationID) {
		return nil, nil, nil, ErrInvalidCorrelationID
	}
	if isExpired(esc.ExpiresAt, blockNow(ctx)) {
		return nil, nil, nil, errors.Wrapf(ErrEscrowExpired, "deadline %s", esc.ExpiresAt)
	}

	main := x.MainSigner(ctx, h.auth)
	if main == nil {
		return nil, nil, nil, errors.ErrUnauthorized
	}
	return &msg, &esc, main.Address(), nil
}

// PurgeEscrowHandler deletes a terminal record and returns the minimum
// reserve to the sender.
type PurgeEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ctrl   Controller
}

var _ custody.Handler = PurgeEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h PurgeEscrowHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: purgeEscrowCost}, nil
}

// Deliver reclaims the record storage.
func (h PurgeEscrowHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, esc, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Purge(db, esc, msg.EscrowID); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h PurgeEscrowHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*PurgeMsg, *Escrow, error) {
	var msg PurgeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	var esc Escrow
	if err := h.bucket.One(db, msg.EscrowID, &esc); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load escrow from the store")
	}

	// Sender or platform may reclaim the storage, nobody else.
	if !h.auth.HasAddress(ctx, esc.Sender) && (esc.Platform == nil || !h.auth.HasAddress(ctx, esc.Platform)) {
		return nil, nil, errors.ErrUnauthorized
	}
	return &msg, &esc, nil
}

// UpdateConfigurationHandler replaces the package configuration on behalf
// of the configuration owner.
type UpdateConfigurationHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = UpdateConfigurationHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h UpdateConfigurationHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: updateConfigCost}, nil
}

// Deliver stores the new configuration.
func (h UpdateConfigurationHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, "escrow", &msg.Patch); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	return &custody.DeliverResult{}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h UpdateConfigurationHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*UpdateConfigurationMsg, error) {
	var msg UpdateConfigurationMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, conf.Owner) {
		return nil, errors.ErrUnauthorized
	}
	return &msg, nil
}

// payoutShares computes the disbursement of a release or claim. The fee is
// only charged when the record carries a platform identity; fee and net
// always add up to the gross amount exactly.
func payoutShares(esc *Escrow, feeBps uint32) ([]Share, error) {
	if esc.Platform == nil || feeBps == 0 {
		return []Share{{To: esc.Recipient, Amount: esc.Amount}}, nil
	}
	fee, net, err := coin.Split(esc.Amount, feeBps)
	if err != nil {
		return nil, err
	}
	return []Share{
		{To: esc.Platform, Amount: fee},
		{To: esc.Recipient, Amount: net},
	}, nil
}
