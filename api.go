package storezip

import (
	"context"
	"io/fs"

	zipcore "github.com/meigma/storezip/core"
)

// Re-export bundle and archive types from core.
type (
	// File is a single bundle entry: a path and its text content.
	File = zipcore.File

	// Bundle is an ordered list of files.
	Bundle = zipcore.Bundle

	// ZipArchive is a built ZIP archive.
	ZipArchive = zipcore.Archive

	// EntryInfo describes one entry of a built archive.
	EntryInfo = zipcore.EntryInfo

	// BuildOption configures archive construction.
	BuildOption = zipcore.BuildOption

	// DuplicatePolicy controls how repeated paths are handled.
	DuplicatePolicy = zipcore.DuplicatePolicy
)

// Re-export duplicate policies and limits.
const (
	DuplicateReject = zipcore.DuplicateReject
	DuplicateAllow  = zipcore.DuplicateAllow

	// MaxEntries is the most entries a classic ZIP archive can hold.
	MaxEntries = zipcore.MaxEntries

	// MediaType is the media type of built archives.
	MediaType = zipcore.MediaType
)

// Re-export build options.
var (
	BuildWithUTF8Flag        = zipcore.BuildWithUTF8Flag
	BuildWithDuplicatePolicy = zipcore.BuildWithDuplicatePolicy
	BuildWithMaxEntries      = zipcore.BuildWithMaxEntries
	BuildWithLogger          = zipcore.BuildWithLogger
	BuildWithProgress        = zipcore.BuildWithProgress
)

// BundleFromMap returns a bundle with the map's entries sorted by path.
func BundleFromMap(m map[string]string) Bundle {
	return zipcore.BundleFromMap(m)
}

// BundleFromFS returns the regular files of fsys in walk order, with
// slash-separated paths relative to its root.
func BundleFromFS(ctx context.Context, fsys fs.FS) (Bundle, error) {
	return zipcore.BundleFromFS(ctx, fsys)
}

// Archive builds a stored ZIP archive from bundle.
//
// This is a convenience wrapper around core.Build for callers that do not
// need a Client.
func Archive(bundle Bundle, opts ...BuildOption) (*ZipArchive, error) {
	return zipcore.Build(bundle, opts...)
}
