package domain

import (
	"encoding/json"
	"strconv"
)

// Broadcast is the reserved destination for messages addressed to everyone.
// Broadcast messages are signed but never hybrid-encrypted.
const Broadcast = "broadcast"

// SystemSender is the hub's own sender id. System frames bypass signature
// verification and decryption.
const SystemSender = "system"

// Ed25519Public is a signing public key.
type Ed25519Public [32]byte

func (p Ed25519Public) Slice() []byte { return p[:] }

// Ed25519Private is a signing private key (ed25519.PrivateKey layout:
// 32-byte seed followed by the public key).
type Ed25519Private [64]byte

func (k Ed25519Private) Slice() []byte { return k[:] }

// Curve25519Public is a Diffie-Hellman public key.
type Curve25519Public [32]byte

func (p Curve25519Public) Slice() []byte { return p[:] }

// Curve25519Private is a Diffie-Hellman private key.
type Curve25519Private [32]byte

func (k Curve25519Private) Slice() []byte { return k[:] }

// Identity holds the local user id and long-term signing keys. It is
// immutable for the lifetime of a client.
type Identity struct {
	UserID string
	Priv   Ed25519Private
	Pub    Ed25519Public
}

// MessageStatus records the pipeline's verdict on a message. It is the only
// Message field mutated after creation.
type MessageStatus string

const (
	StatusPending          MessageStatus = "pending"
	StatusVerified         MessageStatus = "verified"
	StatusInvalidSignature MessageStatus = "invalid_signature"
	StatusUnverified       MessageStatus = "unverified"
	StatusUnsigned         MessageStatus = "unsigned"
	StatusDecryptionFailed MessageStatus = "decryption_failed"
)

// Terminal reports whether the status must not be overwritten by a later
// pipeline stage.
func (s MessageStatus) Terminal() bool {
	switch s {
	case StatusInvalidSignature, StatusUnverified, StatusUnsigned, StatusDecryptionFailed:
		return true
	}
	return false
}

// Message is the socket wire format, one JSON object per frame in both
// directions. For direct messages Content carries a serialized Envelope;
// for broadcast it is plaintext.
type Message struct {
	From           string        `json:"from"`
	To             string        `json:"to"`
	Content        string        `json:"content"`
	TimestampNanos int64         `json:"timestampNanos"`
	Signature      string        `json:"signature,omitempty"`
	Status         MessageStatus `json:"status,omitempty"`
}

// SigningBytes returns the canonical byte string covered by the message
// signature: from|to|timestampNanos|content, exactly as transmitted. For
// encrypted messages Content is the serialized envelope, so the signature
// always covers the ciphertext, never the plaintext.
func (m Message) SigningBytes() []byte {
	return []byte(m.From + "|" + m.To + "|" + strconv.FormatInt(m.TimestampNanos, 10) + "|" + m.Content)
}

// UnmarshalJSON tolerates a malformed timestampNanos (string-encoded or
// garbage) instead of rejecting the whole frame. A timestamp that cannot be
// coerced is left at zero for the pipeline to stamp with the receipt time.
func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	aux := struct {
		*alias
		TimestampNanos json.RawMessage `json:"timestampNanos"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.TimestampNanos = coerceNanos(aux.TimestampNanos)
	return nil
}

func coerceNanos(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// Envelope carries everything needed to decrypt a hybrid-encrypted payload.
// It is transient: serialized into Message.Content for transmission and
// discarded after decryption, never persisted.
type Envelope struct {
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	KeyNonce           string `json:"keyNonce"`
	EncryptedKey       string `json:"encryptedKey"`
	DataNonce          string `json:"dataNonce"`
	EncryptedContent   string `json:"encryptedContent"`
}

// DecryptionFailure is the structured placeholder substituted for content
// that could not be decrypted. The original ciphertext is dropped; the
// message is still delivered so the failure stays visible.
type DecryptionFailure struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// ConnectionState models the socket lifecycle. Reconnecting is a first-class
// state rather than a side flag so state and intent cannot diverge.
type ConnectionState int32

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Reconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Reconnecting:
		return "reconnecting"
	}
	return "unknown"
}

// Presence is the normalized form of the hub's active-user listing.
type Presence struct {
	Online  []string
	Offline []string
}
