package client

import (
	"context"
	"encoding/json"
	"time"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

// transmit runs the outbound pipeline for one message and writes the frame.
func (c *Client) transmit(m domain.Message) error {
	prepared, err := c.prepareOutbound(m)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(prepared)
	if err != nil {
		return domain.NewProtocolError("encode frame: %w", err)
	}
	return c.transport.WriteFrame(frame)
}

// prepareOutbound stamps, encrypts, and signs a message.
//
// Broadcast messages skip encryption; every other destination is
// hybrid-encrypted to the recipient's converted Curve25519 key. The
// signature is computed after encryption, over the content exactly as
// transmitted, so the envelope itself is what the signature protects.
func (c *Client) prepareOutbound(m domain.Message) (domain.Message, error) {
	if m.TimestampNanos == 0 {
		m.TimestampNanos = time.Now().UnixNano()
	}
	if m.To != domain.Broadcast {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		pub, err := c.dir.Lookup(ctx, m.To)
		if err != nil {
			return m, err
		}
		curvePub, err := crypto.PublicToCurve25519(pub)
		if err != nil {
			return m, err
		}
		env, err := crypto.SealEnvelope([]byte(m.Content), curvePub)
		if err != nil {
			return m, err
		}
		raw, err := json.Marshal(env)
		if err != nil {
			return m, domain.NewProtocolError("encode envelope: %w", err)
		}
		m.Content = string(raw)
	}
	m.Signature = crypto.B64(crypto.Sign(c.id.Priv, m.SigningBytes()))
	return m, nil
}

// handleInbound runs the inbound pipeline for one frame: parse, tag, decrypt
// if addressed to us, dispatch. Verification and decryption failures become
// status tags on a message that is still delivered; a forged or mangled
// frame must neither tear down the session nor vanish silently.
func (c *Client) handleInbound(frame []byte) {
	var m domain.Message
	if err := json.Unmarshal(frame, &m); err != nil {
		c.log.Warn().Err(err).Msg("dropping unparseable frame")
		return
	}
	if m.TimestampNanos == 0 {
		m.TimestampNanos = time.Now().UnixNano()
	}

	// System frames are trusted hub chatter: no signature, no envelope.
	if m.From == domain.SystemSender {
		c.dispatch(m)
		return
	}

	if m.Signature != "" {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		pub, err := c.dir.Lookup(ctx, m.From)
		cancel()
		if err != nil {
			c.log.Warn().Err(err).Str("from", m.From).Msg("sender key unavailable")
			m.Status = domain.StatusUnverified
			c.dispatch(m)
			return
		}
		sig, err := crypto.UnB64(m.Signature)
		if err != nil || !crypto.Verify(pub, m.SigningBytes(), sig) {
			m.Status = domain.StatusInvalidSignature
			c.log.Warn().Str("from", m.From).Msg("invalid message signature")
		} else if !m.Status.Terminal() {
			m.Status = domain.StatusVerified
		}
	} else {
		m.Status = domain.StatusUnsigned
	}

	if m.To == c.id.UserID {
		c.decryptInbound(&m)
	}
	c.dispatch(m)
}

// decryptInbound replaces the envelope in Content with the plaintext, or
// with a structured placeholder when any step fails.
func (c *Client) decryptInbound(m *domain.Message) {
	var env domain.Envelope
	if err := json.Unmarshal([]byte(m.Content), &env); err != nil {
		c.markDecryptionFailed(m, domain.NewProtocolError("parse envelope: %w", err))
		return
	}
	plaintext, err := crypto.OpenEnvelope(env, c.curvePriv)
	if err != nil {
		c.markDecryptionFailed(m, err)
		return
	}
	m.Content = string(plaintext)
}

func (c *Client) markDecryptionFailed(m *domain.Message, cause error) {
	c.log.Warn().Err(cause).Str("from", m.From).Msg("failed to decrypt message")
	placeholder, err := json.Marshal(domain.DecryptionFailure{
		Error:  "unable to decrypt message",
		Detail: cause.Error(),
	})
	if err != nil {
		placeholder = []byte(`{"error":"unable to decrypt message"}`)
	}
	m.Content = string(placeholder)
	m.Status = domain.StatusDecryptionFailed
}

func (c *Client) dispatch(m domain.Message) {
	c.subMu.RLock()
	subs := make([]domain.Subscriber, 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.RUnlock()
	for _, fn := range subs {
		fn(m)
	}
}
