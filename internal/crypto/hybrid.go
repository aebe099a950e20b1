package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/nacl/box"

	"wirechat/internal/domain"
)

const (
	symKeyBytes    = 32
	dataNonceBytes = 12
	keyNonceBytes  = 24
)

// SealEnvelope hybrid-encrypts plaintext to the recipient's Curve25519 key.
//
// A fresh 256-bit symmetric key and 96-bit nonce encrypt the content with
// AES-256-GCM (ciphertext with the 128-bit tag appended). The symmetric key
// is then box-sealed (X25519 + XSalsa20-Poly1305) to the recipient under a
// fresh ephemeral key pair and 192-bit nonce.
func SealEnvelope(plaintext []byte, recipient domain.Curve25519Public) (domain.Envelope, error) {
	key := make([]byte, symKeyBytes)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return domain.Envelope{}, domain.NewCryptoError("generate symmetric key: %w", err)
	}
	defer Wipe(key)

	dataNonce := make([]byte, dataNonceBytes)
	if _, err := io.ReadFull(rand.Reader, dataNonce); err != nil {
		return domain.Envelope{}, domain.NewCryptoError("generate data nonce: %w", err)
	}
	blk, err := aes.NewCipher(key)
	if err != nil {
		return domain.Envelope{}, domain.NewCryptoError("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(blk)
	if err != nil {
		return domain.Envelope{}, domain.NewCryptoError("init gcm: %w", err)
	}
	sealed := gcm.Seal(nil, dataNonce, plaintext, nil)

	ephPub, ephPriv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return domain.Envelope{}, domain.NewCryptoError("generate ephemeral key pair: %w", err)
	}
	var keyNonce [keyNonceBytes]byte
	if _, err := io.ReadFull(rand.Reader, keyNonce[:]); err != nil {
		return domain.Envelope{}, domain.NewCryptoError("generate key nonce: %w", err)
	}
	peer := [32]byte(recipient)
	encKey := box.Seal(nil, key, &keyNonce, &peer, ephPriv)

	return domain.Envelope{
		EphemeralPublicKey: B64(ephPub[:]),
		KeyNonce:           B64(keyNonce[:]),
		EncryptedKey:       B64(encKey),
		DataNonce:          B64(dataNonce),
		EncryptedContent:   B64(sealed),
	}, nil
}

// OpenEnvelope reverses SealEnvelope with the local Curve25519 private key.
// Every failure mode (bad encoding, wrong lengths, box or AEAD rejection)
// returns a CryptoError; the caller decides how visible to make it.
func OpenEnvelope(env domain.Envelope, local domain.Curve25519Private) ([]byte, error) {
	ephPub, err := unB64Fixed(env.EphemeralPublicKey, 32, "ephemeral public key")
	if err != nil {
		return nil, err
	}
	keyNonce, err := unB64Fixed(env.KeyNonce, keyNonceBytes, "key nonce")
	if err != nil {
		return nil, err
	}
	dataNonce, err := unB64Fixed(env.DataNonce, dataNonceBytes, "data nonce")
	if err != nil {
		return nil, err
	}
	encKey, err := base64.StdEncoding.DecodeString(env.EncryptedKey)
	if err != nil {
		return nil, domain.NewCryptoError("decode encrypted key: %w", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(env.EncryptedContent)
	if err != nil {
		return nil, domain.NewCryptoError("decode encrypted content: %w", err)
	}

	var peer, priv [32]byte
	copy(peer[:], ephPub)
	copy(priv[:], local.Slice())
	var n24 [keyNonceBytes]byte
	copy(n24[:], keyNonce)

	key, ok := box.Open(nil, encKey, &n24, &peer, &priv)
	if !ok {
		return nil, domain.NewCryptoError("unseal symmetric key: box open failed")
	}
	defer Wipe(key)
	if len(key) != symKeyBytes {
		return nil, domain.NewCryptoError("unsealed key has length %d, want %d", len(key), symKeyBytes)
	}

	blk, err := aes.NewCipher(key)
	if err != nil {
		return nil, domain.NewCryptoError("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(blk)
	if err != nil {
		return nil, domain.NewCryptoError("init gcm: %w", err)
	}
	if len(sealed) < gcm.Overhead() {
		return nil, domain.NewCryptoError("encrypted content shorter than auth tag")
	}
	plaintext, err := gcm.Open(nil, dataNonce, sealed, nil)
	if err != nil {
		return nil, domain.NewCryptoError("decrypt content: %w", err)
	}
	return plaintext, nil
}

func unB64Fixed(s string, want int, what string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, domain.NewCryptoError("decode %s: %w", what, err)
	}
	if len(b) != want {
		return nil, domain.NewCryptoError("%s has length %d, want %d", what, len(b), want)
	}
	return b, nil
}
