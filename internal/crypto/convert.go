package crypto

import (
	"crypto/sha512"

	"filippo.io/edwards25519"

	"wirechat/internal/domain"
)

// PublicToCurve25519 maps an Ed25519 public key to the birationally
// equivalent Curve25519 public key. Fails if the input is not a valid point
// on the edwards curve.
func PublicToCurve25519(pub domain.Ed25519Public) (domain.Curve25519Public, error) {
	var out domain.Curve25519Public
	p, err := new(edwards25519.Point).SetBytes(pub.Slice())
	if err != nil {
		return out, domain.NewCryptoError("ed25519 public key is not a valid curve point: %w", err)
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}

// PrivateToCurve25519 derives the Curve25519 scalar from an Ed25519 private
// key: SHA-512 of the 32-byte seed, clamped per RFC 7748. This is the same
// scalar ed25519 itself signs with, so the mapping is deterministic.
func PrivateToCurve25519(priv domain.Ed25519Private) domain.Curve25519Private {
	var out domain.Curve25519Private
	h := sha512.Sum512(priv[:32])
	copy(out[:], h[:32])
	out[0] &= 248
	out[31] &= 127
	out[31] |= 64
	return out
}
