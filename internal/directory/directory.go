package directory

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"wirechat/internal/domain"
)

// Directory caches peer signing public keys by user id.
//
// Entries are inserted on first successful lookup and never evicted; a
// refresh is last-write-wins. The local user's key is seeded at construction
// so the client never fetches its own key. Concurrent lookups for the same
// uncached id are coalesced into a single fetch.
type Directory struct {
	fetcher domain.KeyFetcher

	mu   sync.RWMutex
	keys map[string]domain.Ed25519Public

	group singleflight.Group
}

// New returns a directory seeded with the local identity's public key.
func New(self domain.Identity, fetcher domain.KeyFetcher) *Directory {
	d := &Directory{
		fetcher: fetcher,
		keys:    make(map[string]domain.Ed25519Public),
	}
	d.keys[self.UserID] = self.Pub
	return d
}

// Lookup returns the cached key for userID, fetching and caching it on a
// miss. Fetch failures are returned as DirectoryError and nothing is cached.
func (d *Directory) Lookup(ctx context.Context, userID string) (domain.Ed25519Public, error) {
	d.mu.RLock()
	pub, ok := d.keys[userID]
	d.mu.RUnlock()
	if ok {
		return pub, nil
	}

	v, err, _ := d.group.Do(userID, func() (any, error) {
		// A racing lookup may have filled the cache while this call
		// waited its turn.
		d.mu.RLock()
		pub, ok := d.keys[userID]
		d.mu.RUnlock()
		if ok {
			return pub, nil
		}
		pub, err := d.fetcher.PublicKey(ctx, userID)
		if err != nil {
			return domain.Ed25519Public{}, err
		}
		d.Insert(userID, pub)
		return pub, nil
	})
	if err != nil {
		return domain.Ed25519Public{}, err
	}
	return v.(domain.Ed25519Public), nil
}

// Insert stores or refreshes an entry, last-write-wins.
func (d *Directory) Insert(userID string, pub domain.Ed25519Public) {
	d.mu.Lock()
	d.keys[userID] = pub
	d.mu.Unlock()
}

// Cached reports whether userID is present without triggering a fetch.
func (d *Directory) Cached(userID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.keys[userID]
	return ok
}

var _ domain.KeyDirectory = (*Directory)(nil)
