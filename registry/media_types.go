package registry

import storezip "github.com/meigma/storezip/core"

const (
	// ArtifactType identifies storezip bundles as an OCI 1.1 artifact type.
	ArtifactType = "application/vnd.meigma.storezip.v1"

	// MediaTypeArchive is the media type of the archive layer.
	MediaTypeArchive = storezip.MediaType

	// DefaultFilename is the layer title used when none is given.
	DefaultFilename = "bundle.zip"
)
