package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrNotFound is returned when a reference or blob does not exist.
	ErrNotFound = errors.New("registry: not found")

	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("registry: unauthorized")

	// ErrForbidden is returned when access is denied.
	ErrForbidden = errors.New("registry: forbidden")

	// ErrInvalidReference is returned when a reference string is malformed
	// or lacks a required tag.
	ErrInvalidReference = errors.New("registry: invalid reference")

	// ErrInvalidManifest is returned when a manifest is not a storezip artifact.
	ErrInvalidManifest = errors.New("registry: invalid manifest")

	// ErrDigestMismatch is returned when fetched content does not match its digest.
	ErrDigestMismatch = errors.New("registry: digest mismatch")

	// ErrSizeMismatch is returned when fetched content does not match its size.
	ErrSizeMismatch = errors.New("registry: size mismatch")
)
