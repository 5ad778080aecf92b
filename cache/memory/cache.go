// Package memory provides an in-process LRU archive cache.
package memory

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/opencontainers/go-digest"
)

// DefaultMaxEntries bounds the number of archives kept when no limit is given.
const DefaultMaxEntries = 128

// ErrContentMismatch is returned by Put when data does not match its digest.
var ErrContentMismatch = errors.New("memory: content does not match digest")

// Cache implements cache.Cache with a least-recently-used eviction policy
// bounded by entry count and, optionally, total bytes.
type Cache struct {
	mu       sync.Mutex
	lru      *lru.Cache
	maxBytes int64
	bytes    int64
}

// Option configures a memory cache.
type Option func(*config)

type config struct {
	maxEntries int
	maxBytes   int64
}

// WithMaxEntries sets the maximum number of cached archives.
func WithMaxEntries(n int) Option {
	return func(c *config) {
		c.maxEntries = n
	}
}

// WithMaxBytes sets the maximum total size of cached archives.
// Use 0 to disable the limit.
func WithMaxBytes(n int64) Option {
	return func(c *config) {
		c.maxBytes = n
	}
}

// New creates an empty memory cache.
func New(opts ...Option) (*Cache, error) {
	cfg := config{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBytes < 0 {
		return nil, errors.New("max bytes must be >= 0")
	}

	c := &Cache{maxBytes: cfg.maxBytes}
	l, err := lru.NewWithEvict(cfg.maxEntries, func(_, value interface{}) {
		c.bytes -= int64(len(value.([]byte)))
	})
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	c.lru = l
	return c, nil
}

// Get returns a copy of the cached archive for dgst and marks it recently
// used.
func (c *Cache) Get(dgst digest.Digest) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(dgst)
	if !ok {
		return nil, false
	}
	return bytes.Clone(v.([]byte)), true
}

// Put stores data under dgst, evicting least recently used archives to
// stay within the limits. The cache keeps its own copy of data. Data larger
// than the byte limit is skipped.
func (c *Cache) Put(dgst digest.Digest, data []byte) error {
	if err := dgst.Validate(); err != nil {
		return err
	}
	if got := dgst.Algorithm().FromBytes(data); got != dgst {
		return fmt.Errorf("%w: got %s, want %s", ErrContentMismatch, got, dgst)
	}
	size := int64(len(data))
	if c.maxBytes > 0 && size > c.maxBytes {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lru.Contains(dgst) {
		return nil
	}
	if c.maxBytes > 0 {
		c.pruneLocked(c.maxBytes - size)
	}
	c.lru.Add(dgst, bytes.Clone(data))
	c.bytes += size
	return nil
}

// Delete removes the archive for dgst.
func (c *Cache) Delete(dgst digest.Digest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Remove(dgst)
	return nil
}

// Len returns the number of cached archives.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// SizeBytes returns the total size of cached archives.
func (c *Cache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bytes
}

// Prune evicts least recently used archives until at most targetBytes remain.
func (c *Cache) Prune(targetBytes int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pruneLocked(max(targetBytes, 0)), nil
}

func (c *Cache) pruneLocked(targetBytes int64) int64 {
	before := c.bytes
	for c.bytes > targetBytes {
		if _, _, ok := c.lru.RemoveOldest(); !ok {
			break
		}
	}
	return before - c.bytes
}
