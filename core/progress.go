package storezip

// ProgressEvent represents a progress update while an archive is built or delivered.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry currently being processed, if applicable.
	Path string

	// BytesDone is the number of archive bytes produced so far.
	BytesDone uint64

	// FilesDone is the number of entries completed.
	FilesDone int

	// FilesTotal is the total number of entries.
	FilesTotal int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

const (
	// StageEncodingEntries indicates local headers and file data are being written.
	StageEncodingEntries ProgressStage = iota

	// StageWritingDirectory indicates the central directory is being written.
	StageWritingDirectory

	// StageFinished indicates the end of central directory record was written.
	StageFinished

	// StagePushing indicates the archive is being pushed to a registry.
	StagePushing

	// StageUploading indicates the archive is being uploaded to an import endpoint.
	StageUploading
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageEncodingEntries:
		return "encoding entries"
	case StageWritingDirectory:
		return "writing directory"
	case StageFinished:
		return "finished"
	case StagePushing:
		return "pushing"
	case StageUploading:
		return "uploading"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Implementations must be safe for concurrent calls when used with BuildAll.
type ProgressFunc func(ProgressEvent)
