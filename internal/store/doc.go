// Package store persists the long-term identity on disk. Chat history is
// deliberately not stored anywhere; the only secret this package handles is
// the signing private key, kept under passphrase encryption.
package store
