// Package client is the long-lived hub session: authentication, the socket
// via internal/transport, and the message pipeline.
//
// Outbound messages are queued on a channel and drained by a single loop
// while the transport is connected: stamp, hybrid-encrypt (unless broadcast),
// sign the canonical from|to|timestamp|content tuple, transmit one frame.
// Inbound frames are parsed, signature-checked against the key directory,
// decrypted when addressed to the local user, tagged with a status, and
// dispatched to every subscriber. Bad signatures and failed decryptions are
// delivered with their tag rather than dropped, so security-relevant events
// stay visible to the application.
package client
