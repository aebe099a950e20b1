package domain

import "context"

// KeyFetcher retrieves a peer's signing public key from the hub. Implemented
// by the hub HTTP client; the directory is its only caller.
type KeyFetcher interface {
	PublicKey(ctx context.Context, userID string) (Ed25519Public, error)
}

// KeyDirectory resolves peer signing keys, serving cached entries where
// possible. Lookups for the same uncached id are coalesced.
type KeyDirectory interface {
	Lookup(ctx context.Context, userID string) (Ed25519Public, error)
}

// Subscriber receives every inbound message after status tagging, including
// messages tagged InvalidSignature or DecryptionFailed. Subscribers must not
// block; they are invoked from the read loop.
type Subscriber func(Message)

// IdentityStore persists the long-term identity under a passphrase.
type IdentityStore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string) (Identity, error)
}
