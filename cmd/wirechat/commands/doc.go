// Package commands implements the wirechat CLI: identity management,
// registration, interactive chat, and small hub queries.
package commands
