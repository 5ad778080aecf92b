// Package cache stores fetched archives by content digest.
package cache

import "github.com/opencontainers/go-digest"

// Cache provides content-addressed archive storage.
//
// Keys are OCI digests of the archive bytes. Implementations must verify
// content against its digest on Put and must not share stored bytes with
// callers, so a hit is always the exact archive that was stored.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached archive for dgst.
	// Returns nil, false if it is not cached or fails verification.
	Get(dgst digest.Digest) ([]byte, bool)

	// Put stores data under dgst. Data that does not match dgst is rejected.
	Put(dgst digest.Digest, data []byte) error

	// Delete removes the archive for dgst.
	// Missing entries are a no-op.
	Delete(dgst digest.Digest) error

	// SizeBytes returns the current cache size in bytes.
	SizeBytes() int64

	// Prune removes entries until the cache is at or below targetBytes.
	// Returns the number of bytes freed.
	Prune(targetBytes int64) (int64, error)
}
