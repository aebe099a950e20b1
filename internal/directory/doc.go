// Package directory caches peer signing public keys, seeded with the local
// key and populated lazily from the hub with in-flight lookups coalesced
// per user id.
package directory
