package registry

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/stretchr/testify/require"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/memory"

	storezip "github.com/meigma/storezip/core"
)

const testRepo = "localhost:5000/bundles/demo"

// newMemoryClient returns a client whose every repository is the same
// in-memory store.
func newMemoryClient(t *testing.T, opts ...Option) (*Client, *memory.Store) {
	t.Helper()

	store := memory.New()
	opts = append(opts, WithTarget(func(repository string) (oras.Target, error) {
		return store, nil
	}))
	return New(opts...), store
}

func testArchive(t *testing.T) *storezip.Archive {
	t.Helper()

	a, err := storezip.Build(storezip.Bundle{
		{Path: "README.md", Content: "# Title\n"},
		{Path: "src/main.go", Content: "package main\n"},
	})
	require.NoError(t, err)
	return a
}

// tamperTarget serves corrupted bytes for one blob.
type tamperTarget struct {
	oras.Target
	victim digest.Digest
}

func (t *tamperTarget) Fetch(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	if desc.Digest != t.victim {
		return t.Target.Fetch(ctx, desc)
	}
	rc, err := t.Target.Fetch(ctx, desc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	data[len(data)-1] ^= 0xFF
	return io.NopCloser(bytes.NewReader(data)), nil
}

// countingTarget counts fetches of one blob.
type countingTarget struct {
	oras.Target
	victim  digest.Digest
	fetches atomic.Int32
}

func (t *countingTarget) Fetch(ctx context.Context, desc ocispec.Descriptor) (io.ReadCloser, error) {
	if desc.Digest == t.victim {
		t.fetches.Add(1)
	}
	return t.Target.Fetch(ctx, desc)
}
