package storezip

import (
	"log/slog"

	"github.com/meigma/storezip/core/internal/zipfmt"
)

// DuplicatePolicy controls how Build treats a bundle that repeats a path.
type DuplicatePolicy uint8

const (
	// DuplicateReject fails the build with ErrDuplicateName.
	DuplicateReject DuplicatePolicy = iota

	// DuplicateAllow writes every occurrence as its own entry. The ZIP format
	// permits this; most extractors keep the last one.
	DuplicateAllow
)

// String returns the human-readable name of the policy.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateAllow:
		return "allow"
	default:
		return "unknown"
	}
}

// MaxEntries is the largest entry count an archive can record.
const MaxEntries = zipfmt.MaxEntries

// buildConfig holds configuration for archive construction.
type buildConfig struct {
	utf8Flag   bool
	duplicates DuplicatePolicy
	maxEntries int
	logger     *slog.Logger
	progress   ProgressFunc

	// maxSize caps the total archive length; zero means the 32-bit format limit.
	maxSize uint64
}

// BuildOption configures archive construction.
type BuildOption func(*buildConfig)

// BuildWithUTF8Flag sets general purpose bit 11 on entries whose names
// contain non-ASCII bytes, telling extractors the name is UTF-8.
//
// The default leaves every flag clear. Names are always written as UTF-8
// either way; the flag only changes how legacy tools decode them.
func BuildWithUTF8Flag(enabled bool) BuildOption {
	return func(cfg *buildConfig) {
		cfg.utf8Flag = enabled
	}
}

// BuildWithDuplicatePolicy sets how repeated paths are handled.
// The default is DuplicateReject.
func BuildWithDuplicatePolicy(p DuplicatePolicy) BuildOption {
	return func(cfg *buildConfig) {
		cfg.duplicates = p
	}
}

// BuildWithMaxEntries lowers the entry limit below MaxEntries.
// Zero or values above MaxEntries use MaxEntries.
func BuildWithMaxEntries(n int) BuildOption {
	return func(cfg *buildConfig) {
		cfg.maxEntries = n
	}
}

// BuildWithLogger sets the logger for build diagnostics.
func BuildWithLogger(logger *slog.Logger) BuildOption {
	return func(cfg *buildConfig) {
		cfg.logger = logger
	}
}

// BuildWithProgress sets a callback that receives an event per entry and
// per phase.
func BuildWithProgress(fn ProgressFunc) BuildOption {
	return func(cfg *buildConfig) {
		cfg.progress = fn
	}
}

func (cfg *buildConfig) entryLimit() int {
	if cfg.maxEntries <= 0 || cfg.maxEntries > MaxEntries {
		return MaxEntries
	}
	return cfg.maxEntries
}

func (cfg *buildConfig) sizeLimit() uint64 {
	if cfg.maxSize == 0 || cfg.maxSize > zipfmt.MaxSize {
		return zipfmt.MaxSize
	}
	return cfg.maxSize
}
