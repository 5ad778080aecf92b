package storezip

import zipcore "github.com/meigma/storezip/core"

// Re-export progress types from core package.
type (
	// ProgressEvent represents a progress update while an archive is built or delivered.
	ProgressEvent = zipcore.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = zipcore.ProgressStage

	// ProgressFunc receives progress updates during operations.
	ProgressFunc = zipcore.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageEncodingEntries indicates local headers and file data are being written.
	StageEncodingEntries = zipcore.StageEncodingEntries

	// StageWritingDirectory indicates the central directory is being written.
	StageWritingDirectory = zipcore.StageWritingDirectory

	// StageFinished indicates the archive is complete.
	StageFinished = zipcore.StageFinished

	// StagePushing indicates the archive is being pushed to a registry.
	StagePushing = zipcore.StagePushing

	// StageUploading indicates the archive is being uploaded.
	StageUploading = zipcore.StageUploading
)
