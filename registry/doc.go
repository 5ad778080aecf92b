// Package registry publishes storezip archives to OCI registries.
//
// An archive is pushed as a single application/zip layer of an OCI 1.1
// artifact manifest and tagged, so any registry can serve as the import
// endpoint for generated bundles:
//
//	c := registry.New(registry.WithDockerConfig())
//	desc, err := c.Push(ctx, "ghcr.io/myorg/bundles:v1", archive)
//
// Fetch returns the raw archive bytes after verifying the layer digest.
// It does not extract entries.
package registry
