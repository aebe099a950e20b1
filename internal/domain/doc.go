// Package domain defines the wire types, connection states, error taxonomy,
// and interfaces shared by the wirechat client packages.
//
// The split mirrors the rest of the module: concrete implementations live in
// internal/crypto, internal/directory, internal/hub, internal/transport, and
// internal/client, and depend on each other only through the interfaces
// declared here.
package domain
