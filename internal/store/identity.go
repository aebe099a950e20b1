package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

const (
	keyBytes   = 32
	saltBytes  = 16
	nonceBytes = chacha20poly1305.NonceSize

	identityFile = "identity.json"
)

// ErrNoIdentity is returned by LoadIdentity when no identity has been saved.
var ErrNoIdentity = errors.New("no identity found; run init first")

// IdentityStore persists the local identity under the home directory.
// The signing private key is encrypted with a passphrase-derived key
// (Argon2id + ChaCha20-Poly1305); the user id and public key stay readable.
type IdentityStore struct {
	home string
}

// NewIdentityStore returns a store rooted at home.
func NewIdentityStore(home string) *IdentityStore {
	return &IdentityStore{home: home}
}

type identityRecord struct {
	UserID    string `json:"user_id"`
	PublicKey string `json:"public_key"`
	Salt      string `json:"salt"`
	Nonce     string `json:"nonce"`
	Cipher    string `json:"cipher"`
}

// SaveIdentity writes the identity, encrypting the private key with the
// passphrase.
func (s *IdentityStore) SaveIdentity(passphrase string, id domain.Identity) error {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return err
	}
	kek := deriveKEK(passphrase, salt)
	defer crypto.Wipe(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return err
	}
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	ct := aead.Seal(nil, nonce, id.Priv.Slice(), nil)

	rec := identityRecord{
		UserID:    id.UserID,
		PublicKey: crypto.B64(id.Pub.Slice()),
		Salt:      crypto.B64(salt),
		Nonce:     crypto.B64(nonce),
		Cipher:    crypto.B64(ct),
	}
	raw, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.home, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.home, identityFile), raw, 0o600)
}

// LoadIdentity reads the identity back, decrypting the private key with the
// passphrase. A wrong passphrase surfaces as an AEAD open failure.
func (s *IdentityStore) LoadIdentity(passphrase string) (domain.Identity, error) {
	raw, err := os.ReadFile(filepath.Join(s.home, identityFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Identity{}, ErrNoIdentity
		}
		return domain.Identity{}, err
	}
	var rec identityRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Identity{}, err
	}

	salt, err := crypto.UnB64(rec.Salt)
	if err != nil {
		return domain.Identity{}, err
	}
	nonce, err := crypto.UnB64(rec.Nonce)
	if err != nil {
		return domain.Identity{}, err
	}
	ct, err := crypto.UnB64(rec.Cipher)
	if err != nil {
		return domain.Identity{}, err
	}
	pub, err := crypto.UnB64(rec.PublicKey)
	if err != nil {
		return domain.Identity{}, err
	}

	kek := deriveKEK(passphrase, salt)
	defer crypto.Wipe(kek)
	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return domain.Identity{}, err
	}
	priv, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return domain.Identity{}, domain.NewCryptoError("decrypt identity (wrong passphrase?): %w", err)
	}

	id := domain.Identity{UserID: rec.UserID}
	if len(priv) != len(id.Priv) || len(pub) != len(id.Pub) {
		return domain.Identity{}, domain.NewCryptoError("stored identity has invalid key lengths")
	}
	copy(id.Priv[:], priv)
	copy(id.Pub[:], pub)
	crypto.Wipe(priv)
	return id, nil
}

// deriveKEK derives a key-encryption key from a passphrase and salt using
// Argon2id.
func deriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1<<16, 8, 1, keyBytes)
}

var _ domain.IdentityStore = (*IdentityStore)(nil)
