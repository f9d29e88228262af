package compute

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/gconf"
	"github.com/mailpay/custody/orm"
	"github.com/mailpay/custody/x"
)

const (
	submitCost       int64 = 200
	callbackCost     int64 = 100
	updateConfigCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	bucket := NewBucket()

	r.Handle(&SubmitMsg{}, SubmitHandler{auth: auth, bucket: bucket, ids: NewSequence()})
	r.Handle(&CallbackMsg{}, CallbackHandler{auth: auth, bucket: bucket})
	r.Handle(&UpdateConfigurationMsg{}, UpdateConfigurationHandler{auth: auth})
}

// SubmitHandler queues an encrypted payload under a freshly allocated
// handle.
type SubmitHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ids    orm.Sequence
}

var _ custody.Handler = SubmitHandler{}

func (h SubmitHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: submitCost}, nil
}

// Deliver stores the queued record and returns its handle.
func (h SubmitHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	main := x.MainSigner(ctx, h.auth)
	if main == nil {
		return nil, errors.ErrUnauthorized
	}

	key, err := h.ids.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "allocate handle")
	}
	c := &Computation{
		Submitter:      main.Address(),
		EncryptedInput: msg.EncryptedInput,
		PubKey:         msg.PubKey,
		Nonce:          msg.Nonce,
		Status:         StatusQueued,
	}
	if err := h.bucket.Put(db, key, c); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: key}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h SubmitHandler) validate(ctx custody.Context, tx custody.Tx) (*SubmitMsg, error) {
	var msg SubmitMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	return &msg, nil
}

// CallbackHandler accepts the cluster's answer for a queued computation.
type CallbackHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ custody.Handler = CallbackHandler{}

func (h CallbackHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: callbackCost}, nil
}

// Deliver records the outcome. An abort is a valid outcome and is persisted
// as one; the failure surfaces when the result is read, not here.
func (h CallbackHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, c, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if msg.Aborted {
		c.Status = StatusAborted
		if err := h.bucket.Put(db, msg.ComputationID, c); err != nil {
			return nil, err
		}
		return &custody.DeliverResult{Data: msg.ComputationID, Log: "aborted"}, nil
	}

	c.Status = StatusCompleted
	c.EncryptedOutput = msg.EncryptedOutput
	c.OutputNonce = msg.OutputNonce
	if err := h.bucket.Put(db, msg.ComputationID, c); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.ComputationID}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CallbackHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CallbackMsg, *Computation, error) {
	var msg CallbackMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	// Only the configured cluster identity may answer.
	if !h.auth.HasAddress(ctx, conf.Cluster) {
		return nil, nil, errors.ErrUnauthorized
	}

	var c Computation
	if err := h.bucket.One(db, msg.ComputationID, &c); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load computation from the store")
	}
	// A single answer per computation. Re-checked right before the
	// mutation so a racing callback loses cleanly.
	if c.Status != StatusQueued {
		return nil, nil, errors.Wrapf(ErrNotQueued, "status %s", c.Status)
	}
	return &msg, &c, nil
}

// UpdateConfigurationHandler replaces the package configuration on behalf
// of the configuration owner.
type UpdateConfigurationHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = UpdateConfigurationHandler{}

func (h UpdateConfigurationHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: updateConfigCost}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := gconf.Save(db, "compute", &msg.Patch); err != nil {
		return nil, errors.Wrap(err, "save configuration")
	}
	return &custody.DeliverResult{}, nil
}

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

// Result returns the encrypted output and its nonce of a completed
// computation. A queued computation answers ErrNotCompleted, an aborted one
// ErrAbortedComputation.
func Result(db custody.ReadOnlyKVStore, bucket orm.ModelBucket, computationID []byte) ([]byte, []byte, error) {
	var c Computation
	if err := bucket.One(db, computationID, &c); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load computation from the store")
	}
	switch c.Status {
	case StatusCompleted:
		return c.EncryptedOutput, c.OutputNonce, nil
	case StatusAborted:
		return nil, nil, errors.Wrapf(ErrAbortedComputation, "computation %X", computationID)
	default:
		return nil, nil, errors.Wrapf(ErrNotCompleted, "status %s", c.Status)
	}
}
