// Package transport owns the websocket lifecycle for the hub session:
// dialing with the bearer token, the heartbeat ping, the read loop, and
// exponential-backoff reconnection.
//
// Reconnecting is an explicit state of the connection state machine, not a
// side flag, and only one reconnection loop can be active at a time. A
// socket error while connected schedules the loop; Disconnect cancels it and
// is terminal until the next Connect.
package transport
