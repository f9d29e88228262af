package compute

import (
	"github.com/mailpay/custody"
	"github.com/mailpay/custody/errors"
)

const (
	pathSubmitMsg   = "compute/submit"
	pathCallbackMsg = "compute/callback"

	computationIDSize = 8
)

var (
	_ custody.Msg = (*SubmitMsg)(nil)
	_ custody.Msg = (*CallbackMsg)(nil)
)

// SubmitMsg queues an encrypted payload for the cluster. The main signer
// becomes the submitter.
type SubmitMsg struct {
	EncryptedInput []byte
	PubKey         []byte
	Nonce          []byte
}

func (SubmitMsg) Path() string {
	return pathSubmitMsg
}

func (m *SubmitMsg) Validate() error {
	if len(m.EncryptedInput) != PayloadSize {
		return errors.Wrapf(errors.ErrInput, "encrypted input %d bytes", len(m.EncryptedInput))
	}
	if len(m.PubKey) != PayloadSize {
		return errors.Wrapf(errors.ErrInput, "public key %d bytes", len(m.PubKey))
	}
	if len(m.Nonce) != NonceSize {
		return errors.Wrapf(errors.ErrInput, "nonce %d bytes", len(m.Nonce))
	}
	return nil
}

func (m *SubmitMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, PayloadSize+PayloadSize+NonceSize)
	raw = append(raw, m.EncryptedInput...)
	raw = append(raw, m.PubKey...)
	raw = append(raw, m.Nonce...)
	return raw, nil
}

func (m *SubmitMsg) Unmarshal(raw []byte) error {
	if len(raw) != PayloadSize+PayloadSize+NonceSize {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.EncryptedInput = append([]byte(nil), raw[:PayloadSize]...)
	m.PubKey = append([]byte(nil), raw[PayloadSize:2*PayloadSize]...)
	m.Nonce = append([]byte(nil), raw[2*PayloadSize:]...)
	return nil
}

// CallbackMsg is the cluster's answer to a queued computation: either the
// encrypted output or the abort flag.
type CallbackMsg struct {
	ComputationID   []byte
	EncryptedOutput []byte
	OutputNonce     []byte
	Aborted         bool
}

func (CallbackMsg) Path() string {
	return pathCallbackMsg
}

func (m *CallbackMsg) Validate() error {
	if len(m.ComputationID) != computationIDSize {
		return errors.Wrapf(errors.ErrInput, "computation id: %X", m.ComputationID)
	}
	if m.Aborted {
		if len(m.EncryptedOutput) != 0 || len(m.OutputNonce) != 0 {
			return errors.Wrap(errors.ErrInput, "aborted callback carries output")
		}
		return nil
	}
	if len(m.EncryptedOutput) != PayloadSize {
		return errors.Wrapf(errors.ErrInput, "encrypted output %d bytes", len(m.EncryptedOutput))
	}
	if len(m.OutputNonce) != NonceSize {
		return errors.Wrapf(errors.ErrInput, "output nonce %d bytes", len(m.OutputNonce))
	}
	return nil
}

func (m *CallbackMsg) Marshal() ([]byte, error) {
	raw := make([]byte, 0, computationIDSize+1+PayloadSize+NonceSize)
	raw = append(raw, m.ComputationID...)
	if m.Aborted {
		raw = append(raw, 1)
		return raw, nil
	}
	raw = append(raw, 0)
	raw = append(raw, m.EncryptedOutput...)
	raw = append(raw, m.OutputNonce...)
	return raw, nil
}

func (m *CallbackMsg) Unmarshal(raw []byte) error {
	if len(raw) < computationIDSize+1 {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.ComputationID = append([]byte(nil), raw[:computationIDSize]...)
	aborted := raw[computationIDSize]
	rest := raw[computationIDSize+1:]
	if aborted == 1 {
		if len(rest) != 0 {
			return errors.Wrap(errors.ErrInput, "aborted callback carries output")
		}
		m.Aborted = true
		m.EncryptedOutput = nil
		m.OutputNonce = nil
		return nil
	}
	if len(rest) != PayloadSize+NonceSize {
		return errors.Wrapf(errors.ErrInput, "message payload %d bytes", len(raw))
	}
	m.Aborted = false
	m.EncryptedOutput = append([]byte(nil), rest[:PayloadSize]...)
	m.OutputNonce = append([]byte(nil), rest[PayloadSize:]...)
	return nil
}
