package storezip

import (
	"errors"

	zipcore "github.com/meigma/storezip/core"
	ziphttp "github.com/meigma/storezip/http"
	"github.com/meigma/storezip/registry"
)

// Errors re-exported from core.
var (
	// ErrCapacityExceeded is returned when an input would overflow a ZIP field.
	ErrCapacityExceeded = zipcore.ErrCapacityExceeded

	// ErrDuplicateName is returned when a bundle repeats a path.
	ErrDuplicateName = zipcore.ErrDuplicateName
)

// Errors re-exported from registry.
var (
	// ErrNotFound is returned when no archive exists at the reference.
	ErrNotFound = registry.ErrNotFound

	// ErrInvalidReference is returned when a reference string is malformed.
	ErrInvalidReference = registry.ErrInvalidReference

	// ErrInvalidManifest is returned when a manifest is not a storezip manifest.
	ErrInvalidManifest = registry.ErrInvalidManifest

	// ErrDigestMismatch is returned when fetched content does not match its digest.
	ErrDigestMismatch = registry.ErrDigestMismatch
)

// Errors re-exported from http.
var (
	// ErrImportRejected is returned when the import endpoint refuses an upload.
	ErrImportRejected = ziphttp.ErrImportRejected

	// ErrNoBundle tells a Handler that no bundle exists for the request.
	ErrNoBundle = ziphttp.ErrNoBundle
)

// ErrNoUploadEndpoint is returned by Upload when the client has no endpoint.
var ErrNoUploadEndpoint = errors.New("storezip: no upload endpoint configured")
