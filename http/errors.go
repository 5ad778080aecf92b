package http

import "errors"

var (
	// ErrNoBundle is returned by a BundleSource when the request names no bundle.
	// Handler answers it with 404 Not Found.
	ErrNoBundle = errors.New("http: no bundle")

	// ErrImportRejected is returned when the import endpoint answers with a
	// non-2xx status.
	ErrImportRejected = errors.New("http: import rejected")
)
