package compute

import (
	"bytes"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/orm"
)

// Status describes where a computation is in its lifecycle.
type Status uint8

const (
	// StatusQueued means the payload waits for the cluster.
	StatusQueued Status = 1
	// StatusCompleted means the cluster delivered an encrypted result.
	StatusCompleted Status = 2
	// StatusAborted means the cluster declared the computation failed.
	StatusAborted Status = 3
)

func (s Status) Validate() error {
	if s < StatusQueued || s > StatusAborted {
		return errors.Wrapf(errors.ErrState, "status %d", s)
	}
	return nil
}

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return "invalid"
	}
}

const (
	// PayloadSize is the size of the encrypted input and output blocks.
	PayloadSize = 32
	// NonceSize is the size of the encryption nonces.
	NonceSize = 16

	recordSize = custody.AddressLength + PayloadSize + PayloadSize + NonceSize + 1 + PayloadSize + NonceSize
)

// Computation is one queued request and, once the cluster answered, its
// result. All payload fields are ciphertext and never interpreted here.
type Computation struct {
	Submitter       custody.Address
	EncryptedInput  []byte
	PubKey          []byte
	Nonce           []byte
	Status          Status
	EncryptedOutput []byte
	OutputNonce     []byte
}

var _ orm.Model = (*Computation)(nil)

func (c *Computation) Validate() error {
	if err := c.Submitter.Validate(); err != nil {
		return errors.Wrap(err, "submitter")
	}
	if len(c.EncryptedInput) != PayloadSize {
		return errors.Wrapf(errors.ErrInput, "encrypted input %d bytes", len(c.EncryptedInput))
	}
	if len(c.PubKey) != PayloadSize {
		return errors.Wrapf(errors.ErrInput, "public key %d bytes", len(c.PubKey))
	}
	if len(c.Nonce) != NonceSize {
		return errors.Wrapf(errors.ErrInput, "nonce %d bytes", len(c.Nonce))
	}
	if err := c.Status.Validate(); err != nil {
		return err
	}
	if c.Status == StatusCompleted {
		if len(c.EncryptedOutput) != PayloadSize {
			return errors.Wrapf(errors.ErrInput, "encrypted output %d bytes", len(c.EncryptedOutput))
		}
		if len(c.OutputNonce) != NonceSize {
			return errors.Wrapf(errors.ErrInput, "output nonce %d bytes", len(c.OutputNonce))
		}
	}
	return nil
}

func (c *Computation) Marshal() ([]byte, error) {
	raw := make([]byte, 0, recordSize)
	raw = append(raw, c.Submitter...)
	raw = append(raw, c.EncryptedInput...)
	raw = append(raw, c.PubKey...)
	raw = append(raw, c.Nonce...)
	raw = append(raw, byte(c.Status))
	raw = appendPadded(raw, c.EncryptedOutput, PayloadSize)
	raw = appendPadded(raw, c.OutputNonce, NonceSize)
	return raw, nil
}

func (c *Computation) Unmarshal(raw []byte) error {
	if len(raw) != recordSize {
		return errors.Wrapf(errors.ErrInput, "record payload %d bytes", len(raw))
	}
	cur := 0
	c.Submitter = custody.Address(raw[:custody.AddressLength]).Clone()
	cur += custody.AddressLength
	c.EncryptedInput = append([]byte(nil), raw[cur:cur+PayloadSize]...)
	cur += PayloadSize
	c.PubKey = append([]byte(nil), raw[cur:cur+PayloadSize]...)
	cur += PayloadSize
	c.Nonce = append([]byte(nil), raw[cur:cur+NonceSize]...)
	cur += NonceSize
	c.Status = Status(raw[cur])
	cur++
	c.EncryptedOutput = readPadded(raw[cur : cur+PayloadSize])
	cur += PayloadSize
	c.OutputNonce = readPadded(raw[cur : cur+NonceSize])
	return nil
}

// appendPadded writes the value, using the all-zero block for a field not
// filled in yet.
func appendPadded(raw, val []byte, size int) []byte {
	if val == nil {
		return append(raw, make([]byte, size)...)
	}
	return append(raw, val...)
}

// readPadded maps the persisted all-zero block back to an unset field.
func readPadded(raw []byte) []byte {
	if bytes.Equal(raw, make([]byte, len(raw))) {
		return nil
	}
	return append([]byte(nil), raw...)
}

// NewBucket returns the bucket holding all computation records, keyed by
// their sequence handle.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("cmp", &Computation{})
}

// NewSequence returns the counter that allocates computation handles.
func NewSequence() orm.Sequence {
	return orm.NewSequence("cmp", "id")
}
