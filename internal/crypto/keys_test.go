package crypto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

func TestSignVerify(t *testing.T) {
	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)

	msg := domain.Message{
		From:           "alice",
		To:             "bob",
		Content:        "hello",
		TimestampNanos: 1234567890,
	}
	sig := crypto.Sign(id.Priv, msg.SigningBytes())
	require.True(t, crypto.Verify(id.Pub, msg.SigningBytes(), sig))

	// Altering any canonical tuple field must break the signature.
	for _, mutate := range []func(m domain.Message) domain.Message{
		func(m domain.Message) domain.Message { m.From = "mallory"; return m },
		func(m domain.Message) domain.Message { m.To = "carol"; return m },
		func(m domain.Message) domain.Message { m.Content = "hellp"; return m },
		func(m domain.Message) domain.Message { m.TimestampNanos++; return m },
	} {
		altered := mutate(msg)
		require.False(t, crypto.Verify(id.Pub, altered.SigningBytes(), sig))
	}

	other, err := crypto.NewIdentity("bob")
	require.NoError(t, err)
	require.False(t, crypto.Verify(other.Pub, msg.SigningBytes(), sig))
}

func TestFingerprintStable(t *testing.T) {
	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)
	fp := crypto.Fingerprint(id.Pub.Slice())
	require.Len(t, fp, 20)
	require.Equal(t, fp, crypto.Fingerprint(id.Pub.Slice()))
}
