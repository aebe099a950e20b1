// Package crypto implements the key material operations of the client:
// Ed25519 signing and verification, the deterministic Ed25519 to Curve25519
// conversions, and the hybrid envelope scheme used for direct messages
// (AES-256-GCM for content, NaCl box for the one-time symmetric key).
//
// Nothing here touches the network or holds mutable state; every function is
// a pure operation over the immutable identity or explicit arguments.
package crypto
