// Package hub is the HTTP client for the hub's collaborator endpoints:
// account registration, challenge-response login, signing key lookup, user
// descriptions, and presence.
//
// All requests carry per-call deadlines (5s for single-object calls, 10s for
// list responses) and are JSON over HTTP. Non-2xx statuses surface as typed
// errors from the domain taxonomy; the presence endpoint alone degrades to
// empty lists instead of failing.
package hub
