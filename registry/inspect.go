package registry

import (
	"context"
	"time"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// InspectResult describes a pushed archive without its content.
type InspectResult struct {
	// Manifest is the descriptor of the artifact manifest.
	Manifest ocispec.Descriptor

	// Archive is the descriptor of the ZIP layer.
	Archive ocispec.Descriptor

	// Filename is the title annotation of the ZIP layer, if any.
	Filename string

	// Created is the manifest creation time, or the zero time if absent.
	Created time.Time

	// Annotations are the manifest annotations.
	Annotations map[string]string
}

// Inspect retrieves archive metadata without downloading the archive.
func (c *Client) Inspect(ctx context.Context, ref string) (*InspectResult, error) {
	r, err := c.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	res := &InspectResult{
		Manifest:    r.desc,
		Archive:     r.layer,
		Filename:    r.layer.Annotations[ocispec.AnnotationTitle],
		Annotations: r.manifest.Annotations,
	}
	if created, ok := r.manifest.Annotations[ocispec.AnnotationCreated]; ok {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			res.Created = t
		}
	}
	return res, nil
}
