package registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/errdef"

	storezip "github.com/meigma/storezip/core"
)

// Push pushes an archive to an OCI registry and tags it.
//
// The archive becomes the single layer of an OCI 1.1 artifact manifest
// with ArtifactType. The ref must include a tag
// (e.g., "registry.com/repo:v1.0.0"). Use PushWithTags to apply more tags
// to the same manifest.
func (c *Client) Push(ctx context.Context, ref string, a *storezip.Archive, opts ...PushOption) (ocispec.Descriptor, error) {
	cfg := pushConfig{filename: DefaultFilename}
	for _, opt := range opts {
		opt(&cfg)
	}
	if a == nil {
		return ocispec.Descriptor{}, errors.New("push: archive is nil")
	}

	parsed, err := parseRef(ref)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	if parsed.ValidateReferenceAsTag() != nil {
		return ocispec.Descriptor{}, fmt.Errorf("%w: reference must include a tag", ErrInvalidReference)
	}
	target, err := c.target(parsed)
	if err != nil {
		return ocispec.Descriptor{}, err
	}

	layer := a.Descriptor()
	layer.Annotations = map[string]string{ocispec.AnnotationTitle: cfg.filename}
	if err := pushIfNotExist(ctx, target, layer, a.NewReader()); err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push archive blob: %w", mapError(err))
	}

	manifestDesc, err := oras.PackManifest(ctx, target, oras.PackManifestVersion1_1, ArtifactType, oras.PackManifestOptions{
		Layers:              []ocispec.Descriptor{layer},
		ManifestAnnotations: cfg.annotations,
	})
	if err != nil {
		return ocispec.Descriptor{}, fmt.Errorf("push manifest: %w", mapError(err))
	}

	for _, tag := range append([]string{parsed.Reference}, cfg.tags...) {
		if err := target.Tag(ctx, manifestDesc, tag); err != nil {
			return ocispec.Descriptor{}, fmt.Errorf("tag %q: %w", tag, mapError(err))
		}
	}

	c.log().Info("pushed archive",
		"ref", ref,
		"digest", manifestDesc.Digest.String(),
		"archive_digest", layer.Digest.String(),
		"entries", a.Len(),
		"size", layer.Size)
	return manifestDesc, nil
}

// pushIfNotExist pushes content unless the target already has it.
func pushIfNotExist(ctx context.Context, target oras.Target, desc ocispec.Descriptor, r io.Reader) error {
	exists, err := target.Exists(ctx, desc)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := target.Push(ctx, desc, r); err != nil && !errors.Is(err, errdef.ErrAlreadyExists) {
		return err
	}
	return nil
}
