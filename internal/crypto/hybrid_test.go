package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

// makeIdentity creates a fresh identity and its Curve25519 counterparts.
func makeIdentity(t *testing.T) (domain.Identity, domain.Curve25519Private, domain.Curve25519Public) {
	t.Helper()
	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)
	curvePriv := crypto.PrivateToCurve25519(id.Priv)
	curvePub, err := crypto.PublicToCurve25519(id.Pub)
	require.NoError(t, err)
	return id, curvePriv, curvePub
}

func TestConvertedKeysFormPair(t *testing.T) {
	_, priv, pub := makeIdentity(t)
	derived, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	require.NoError(t, err)
	require.Equal(t, pub.Slice(), derived, "converted private and public keys disagree")
}

func TestSealOpenRoundTrip(t *testing.T) {
	_, priv, pub := makeIdentity(t)
	for _, plaintext := range []string{"", "hi", "a much longer message with unicode: héllo wörld"} {
		env, err := crypto.SealEnvelope([]byte(plaintext), pub)
		require.NoError(t, err)
		out, err := crypto.OpenEnvelope(env, priv)
		require.NoError(t, err)
		require.Equal(t, plaintext, string(out))
	}
}

func TestOpenRejectsTamperedContent(t *testing.T) {
	_, priv, pub := makeIdentity(t)
	env, err := crypto.SealEnvelope([]byte("secret"), pub)
	require.NoError(t, err)

	flip := func(s string) string {
		raw, err := base64.StdEncoding.DecodeString(s)
		require.NoError(t, err)
		raw[0] ^= 0x01
		return base64.StdEncoding.EncodeToString(raw)
	}

	tampered := env
	tampered.EncryptedContent = flip(env.EncryptedContent)
	_, err = crypto.OpenEnvelope(tampered, priv)
	require.Error(t, err)
	var ce *domain.CryptoError
	require.ErrorAs(t, err, &ce)

	tampered = env
	tampered.EncryptedKey = flip(env.EncryptedKey)
	_, err = crypto.OpenEnvelope(tampered, priv)
	require.Error(t, err)
}

func TestOpenRejectsWrongRecipient(t *testing.T) {
	_, _, alicePub := makeIdentity(t)
	_, mallloryPriv, _ := makeIdentity(t)
	env, err := crypto.SealEnvelope([]byte("for alice only"), alicePub)
	require.NoError(t, err)
	_, err = crypto.OpenEnvelope(env, mallloryPriv)
	require.Error(t, err)
}

func TestOpenRejectsMalformedFields(t *testing.T) {
	_, priv, pub := makeIdentity(t)
	env, err := crypto.SealEnvelope([]byte("x"), pub)
	require.NoError(t, err)

	bad := env
	bad.EphemeralPublicKey = "not base64!!"
	_, err = crypto.OpenEnvelope(bad, priv)
	require.Error(t, err)

	bad = env
	bad.KeyNonce = crypto.B64([]byte("short"))
	_, err = crypto.OpenEnvelope(bad, priv)
	require.Error(t, err)

	bad = env
	bad.EncryptedContent = crypto.B64([]byte("tiny"))
	_, err = crypto.OpenEnvelope(bad, priv)
	require.Error(t, err)
}
