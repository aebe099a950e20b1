package domain

import "fmt"

// CryptoError indicates bad key material, a failed curve conversion, or an
// AEAD failure.
type CryptoError struct {
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("wirechat/crypto: %v", e.Err) }
func (e *CryptoError) Unwrap() error { return e.Err }

// NewCryptoError builds a CryptoError from a format string.
func NewCryptoError(f string, a ...any) error {
	return &CryptoError{Err: fmt.Errorf(f, a...)}
}

// DirectoryError indicates a public key lookup failed in transport or format.
type DirectoryError struct {
	Err error
}

func (e *DirectoryError) Error() string { return fmt.Sprintf("wirechat/directory: %v", e.Err) }
func (e *DirectoryError) Unwrap() error { return e.Err }

// NewDirectoryError builds a DirectoryError from a format string.
func NewDirectoryError(f string, a ...any) error {
	return &DirectoryError{Err: fmt.Errorf(f, a...)}
}

// AuthError indicates registration or login was rejected or returned a
// malformed response.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("wirechat/auth: %v", e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// NewAuthError builds an AuthError from a format string.
func NewAuthError(f string, a ...any) error {
	return &AuthError{Err: fmt.Errorf(f, a...)}
}

// ProtocolError indicates an unparseable frame or envelope.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("wirechat/protocol: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// NewProtocolError builds a ProtocolError from a format string.
func NewProtocolError(f string, a ...any) error {
	return &ProtocolError{Err: fmt.Errorf(f, a...)}
}

// ValidationError indicates caller misuse, e.g. an empty description list.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return fmt.Sprintf("wirechat/validation: %v", e.Err) }
func (e *ValidationError) Unwrap() error { return e.Err }

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(f string, a ...any) error {
	return &ValidationError{Err: fmt.Errorf(f, a...)}
}

// NetworkError indicates a socket-level failure. These always feed the
// reconnection state machine and are never terminal.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("wirechat/network: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// NewNetworkError builds a NetworkError from a format string.
func NewNetworkError(f string, a ...any) error {
	return &NetworkError{Err: fmt.Errorf(f, a...)}
}
