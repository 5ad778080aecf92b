package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"

	"github.com/meigma/storezip/internal/sizing"
)

// maxManifestSize bounds manifest reads.
const maxManifestSize = 4 << 20

// resolved is a validated storezip manifest and the target it came from.
type resolved struct {
	target   oras.Target
	desc     ocispec.Descriptor
	manifest ocispec.Manifest
	layer    ocispec.Descriptor
}

// resolve looks up ref and validates the manifest it points to.
func (c *Client) resolve(ctx context.Context, ref string) (*resolved, error) {
	parsed, err := parseRef(ref)
	if err != nil {
		return nil, err
	}
	if parsed.Reference == "" {
		return nil, fmt.Errorf("%w: reference must include a tag or digest", ErrInvalidReference)
	}
	target, err := c.target(parsed)
	if err != nil {
		return nil, err
	}

	desc, err := target.Resolve(ctx, parsed.Reference)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref, mapError(err))
	}
	if desc.Size > maxManifestSize {
		return nil, fmt.Errorf("%w: manifest is %d bytes", ErrInvalidManifest, desc.Size)
	}
	raw, err := content.FetchAll(ctx, target, desc)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", mapError(err))
	}
	manifest, err := parseManifest(raw)
	if err != nil {
		return nil, err
	}
	return &resolved{target: target, desc: desc, manifest: manifest, layer: manifest.Layers[0]}, nil
}

// Fetch resolves ref and returns the archive bytes it points to.
//
// The manifest must be a storezip artifact with exactly one archive layer.
// The layer is checked against its descriptor's size and digest; the
// archive is not opened or extracted. With a cache configured, verified
// archives are stored by digest and later fetches of the same digest skip
// the blob download.
func (c *Client) Fetch(ctx context.Context, ref string, opts ...FetchOption) ([]byte, error) {
	cfg := newFetchConfig(opts)

	r, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	layer := r.layer

	if c.cache != nil && cfg.readCache {
		if data, ok := c.cache.Get(layer.Digest); ok && int64(len(data)) == layer.Size {
			c.log().Debug("archive cache hit", "ref", ref, "digest", layer.Digest.String())
			return data, nil
		}
	}

	rc, err := r.target.Fetch(ctx, layer)
	if err != nil {
		return nil, fmt.Errorf("fetch archive blob: %w", mapError(err))
	}
	defer rc.Close()

	data, err := sizing.ReadAllWithLimit(rc, uint64(layer.Size), ErrSizeMismatch) //nolint:gosec // validated non-negative
	if err != nil {
		return nil, fmt.Errorf("read archive blob: %w", err)
	}
	if int64(len(data)) != layer.Size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(data), layer.Size)
	}
	if got := digest.FromBytes(data); got != layer.Digest {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrDigestMismatch, got, layer.Digest)
	}

	if c.cache != nil && cfg.writeCache {
		if !cfg.readCache {
			if err := c.cache.Delete(layer.Digest); err != nil {
				c.log().Warn("evict cached archive", "digest", layer.Digest.String(), "error", err)
			}
		}
		if err := c.cache.Put(layer.Digest, data); err != nil {
			c.log().Warn("cache archive", "digest", layer.Digest.String(), "error", err)
		}
	}

	c.log().Debug("fetched archive", "ref", ref, "digest", layer.Digest.String(), "size", layer.Size)
	return data, nil
}

// parseManifest validates a storezip manifest with a single archive layer.
func parseManifest(raw []byte) (ocispec.Manifest, error) {
	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return manifest, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if manifest.MediaType != ocispec.MediaTypeImageManifest {
		return manifest, fmt.Errorf("%w: unexpected manifest media type %q", ErrInvalidManifest, manifest.MediaType)
	}
	if manifest.ArtifactType != ArtifactType {
		return manifest, fmt.Errorf("%w: unexpected artifact type %q", ErrInvalidManifest, manifest.ArtifactType)
	}
	if len(manifest.Layers) != 1 {
		return manifest, fmt.Errorf("%w: expected 1 layer, got %d", ErrInvalidManifest, len(manifest.Layers))
	}
	layer := manifest.Layers[0]
	if layer.MediaType != MediaTypeArchive {
		return manifest, fmt.Errorf("%w: unexpected layer media type %q", ErrInvalidManifest, layer.MediaType)
	}
	if layer.Size < 0 {
		return manifest, fmt.Errorf("%w: negative layer size", ErrInvalidManifest)
	}
	if err := layer.Digest.Validate(); err != nil {
		return manifest, fmt.Errorf("%w: invalid layer digest: %v", ErrInvalidManifest, err)
	}
	return manifest, nil
}
