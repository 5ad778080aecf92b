package registry

import (
	"context"
	"fmt"

	"oras.land/oras-go/v2"
)

// Tag points the tag in ref at the manifest src resolves to.
//
// The ref specifies the repository and new tag (e.g., "registry.com/repo:stable").
// The src is an existing tag or manifest digest in the same repository.
func (c *Client) Tag(ctx context.Context, ref, src string) error {
	parsed, err := parseRef(ref)
	if err != nil {
		return err
	}
	if err := parsed.ValidateReferenceAsTag(); err != nil {
		return fmt.Errorf("%w: reference must include a tag", ErrInvalidReference)
	}
	if src == "" {
		return fmt.Errorf("%w: source tag or digest is empty", ErrInvalidReference)
	}
	target, err := c.target(parsed)
	if err != nil {
		return err
	}

	desc, err := oras.Tag(ctx, target, src, parsed.Reference)
	if err != nil {
		return fmt.Errorf("tag %q: %w", ref, mapError(err))
	}
	c.log().Info("tagged archive", "ref", ref, "digest", desc.Digest.String())
	return nil
}
