// Package storezip builds uncompressed ZIP archives from in-memory text
// bundles and delivers them as downloads, registry artifacts, or uploads.
//
// Archives use the stored method only: every entry is written verbatim with
// its CRC-32, so any standard unzip tool can extract them. Building is pure
// and deterministic; the same bundle always yields the same bytes. For
// archive construction without delivery, use the [core] subpackage.
//
// # Quick Start
//
// Build an archive from a bundle:
//
//	a, err := storezip.Archive(storezip.Bundle{
//	    {Path: "README.md", Content: "# Project\n"},
//	    {Path: "src/main.go", Content: "package main\n"},
//	})
//	if err != nil {
//	    return err
//	}
//	_, err = a.WriteTo(w)
//
// Push a bundle to an OCI registry:
//
//	c, err := storezip.NewClient(storezip.WithDockerConfig())
//	if err != nil {
//	    return err
//	}
//	desc, err := c.Push(ctx, "ghcr.io/myorg/session:v1", bundle)
//
// Upload a bundle to an import endpoint:
//
//	c, err := storezip.NewClient(storezip.WithUploadEndpoint("https://example.com/import"))
//	if err != nil {
//	    return err
//	}
//	err = c.Upload(ctx, "session.zip", bundle)
//
// Serve bundles as downloads:
//
//	mux.Handle("/download", c.Handler(func(r *http.Request) (string, storezip.Bundle, error) {
//	    return "session", loadBundle(r), nil
//	}))
//
// # Limits
//
// The classic ZIP format stores sizes and offsets in 32 bits and entry
// counts and name lengths in 16 bits. Inputs that would overflow any of
// these fail with [ErrCapacityExceeded] before a field is written.
package storezip
