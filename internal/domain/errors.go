// Path: internal/domain/errors.go
package domain

import "errors"

var (
	// ErrNotConfigured means the remote store has no usable URL/credential.
	ErrNotConfigured = errors.New("remote store not configured")

	// ErrRemote wraps network, auth and query failures from a configured store.
	ErrRemote = errors.New("remote store error")

	// ErrInvalidGene is returned when a record breaks its invariants.
	ErrInvalidGene = errors.New("invalid gene record")
)
