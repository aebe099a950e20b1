package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	"wirechat/internal/domain"
)

// NewIdentity returns a fresh identity with an Ed25519 signing key pair.
func NewIdentity(userID string) (domain.Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return domain.Identity{}, domain.NewCryptoError("generate signing key: %w", err)
	}
	id := domain.Identity{UserID: userID}
	copy(id.Priv[:], priv)
	copy(id.Pub[:], pub)
	return id, nil
}

// Sign returns a detached Ed25519 signature over msg.
func Sign(priv domain.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// Verify reports whether sig is a valid signature over msg by pub.
func Verify(pub domain.Ed25519Public, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}
