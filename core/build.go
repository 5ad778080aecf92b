package storezip

import (
	"fmt"
	"log/slog"

	"github.com/meigma/storezip/core/internal/zipfmt"
	"github.com/meigma/storezip/internal/sizing"
)

// Build encodes bundle as a stored ZIP archive.
//
// Entries are written in bundle order. The central directory lists them in
// the same order, and the archive ends with a 22-byte end of central
// directory record. An empty bundle yields a 22-byte archive with no entries.
//
// Build returns ErrCapacityExceeded if a name is longer than 65535 bytes,
// the bundle has more entries than the configured limit, or the archive
// would be 4 GiB or larger. It returns ErrDuplicateName for repeated paths
// unless DuplicateAllow is set. On error no partial archive is returned.
func Build(bundle Bundle, opts ...BuildOption) (*Archive, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if limit := cfg.entryLimit(); len(bundle) > limit {
		return nil, fmt.Errorf("%w: %d entries exceeds limit of %d", ErrCapacityExceeded, len(bundle), limit)
	}

	b := newBuilder(&cfg, len(bundle))
	for _, f := range bundle {
		if err := b.addFile(f); err != nil {
			return nil, err
		}
	}
	a, err := b.finish()
	if err != nil {
		return nil, err
	}

	b.log().Debug("archive built",
		"entries", len(a.entries),
		"size", len(a.data),
		"central_directory_offset", a.dirOffset,
		"central_directory_size", a.dirSize)
	return a, nil
}

// builder accumulates archive segments and the running byte offset for a
// single Build call.
type builder struct {
	cfg      *buildConfig
	limit    uint64
	total    int
	offset   uint32
	segments [][]byte
	entries  []zipfmt.Entry
	seen     map[string]struct{}
}

func newBuilder(cfg *buildConfig, n int) *builder {
	b := &builder{
		cfg:      cfg,
		limit:    cfg.sizeLimit(),
		total:    n,
		segments: make([][]byte, 0, 5*n+1),
		entries:  make([]zipfmt.Entry, 0, n),
	}
	if cfg.duplicates == DuplicateReject {
		b.seen = make(map[string]struct{}, n)
	}
	return b
}

// log returns the logger, falling back to a discard logger if nil.
func (b *builder) log() *slog.Logger {
	if b.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.cfg.logger
}

// reportProgress sends a progress event if a callback is configured.
func (b *builder) reportProgress(stage ProgressStage, path string) {
	if b.cfg.progress == nil {
		return
	}
	b.cfg.progress(ProgressEvent{
		Stage:      stage,
		Path:       path,
		BytesDone:  uint64(b.offset),
		FilesDone:  len(b.entries),
		FilesTotal: b.total,
	})
}

// append adds segments to the archive and advances the running offset.
// The offset is left unchanged if the segments would not fit.
func (b *builder) append(segments ...[]byte) error {
	var n uint64
	for _, s := range segments {
		n += uint64(len(s))
	}
	next, ok := sizing.AddUint32(b.offset, n)
	if !ok || uint64(next) > b.limit {
		return fmt.Errorf("%w: archive would exceed %d bytes", ErrCapacityExceeded, b.limit)
	}
	b.segments = append(b.segments, segments...)
	b.offset = next
	return nil
}

// addFile writes the local header, name and data for f.
func (b *builder) addFile(f File) error {
	if b.seen != nil {
		if _, dup := b.seen[f.Path]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, f.Path)
		}
		b.seen[f.Path] = struct{}{}
	}
	if len(f.Path) > zipfmt.MaxNameLen {
		return fmt.Errorf("%w: name of %d bytes exceeds %d", ErrCapacityExceeded, len(f.Path), zipfmt.MaxNameLen)
	}
	if uint64(len(f.Content)) > b.limit {
		return fmt.Errorf("%w: %q is %d bytes", ErrCapacityExceeded, f.Path, len(f.Content))
	}

	var flags uint16
	if b.cfg.utf8Flag && !zipfmt.IsASCII(f.Path) {
		flags |= zipfmt.FlagUTF8
	}

	e := zipfmt.NewEntry(f.Path, f.Content, b.offset, flags)
	header := zipfmt.EncodeLocalHeader(e)
	if err := b.append(header[:], e.Name, e.Data); err != nil {
		return fmt.Errorf("add %q: %w", f.Path, err)
	}
	b.entries = append(b.entries, e)
	b.reportProgress(StageEncodingEntries, f.Path)
	return nil
}

// finish writes the central directory and end record, then concatenates
// every segment into the final archive.
func (b *builder) finish() (*Archive, error) {
	dirOffset := b.offset
	for _, e := range b.entries {
		record := zipfmt.EncodeCentralRecord(e)
		if err := b.append(record[:], e.Name); err != nil {
			return nil, fmt.Errorf("central directory: %w", err)
		}
	}
	dirSize := b.offset - dirOffset
	b.reportProgress(StageWritingDirectory, "")

	count, err := sizing.ToUint16(uint64(len(b.entries)), ErrCapacityExceeded)
	if err != nil {
		return nil, fmt.Errorf("%w: %d entries", err, len(b.entries))
	}
	eocd := zipfmt.EncodeEOCD(count, dirSize, dirOffset)
	if err := b.append(eocd[:]); err != nil {
		return nil, fmt.Errorf("end of central directory: %w", err)
	}

	data := make([]byte, 0, b.offset)
	for _, s := range b.segments {
		data = append(data, s...)
	}
	b.reportProgress(StageFinished, "")

	return newArchive(data, b.entries, dirOffset, dirSize), nil
}
