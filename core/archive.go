package storezip

import (
	"bytes"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/meigma/storezip/core/internal/zipfmt"
)

// MediaType is the media type of an encoded archive.
const MediaType = "application/zip"

// EntryInfo describes one entry of a built archive.
type EntryInfo struct {
	// Name is the entry name as written to the archive.
	Name string

	// Size is the stored (and uncompressed) size in bytes.
	Size uint32

	// CRC32 is the checksum recorded in both the local header and the
	// central directory record.
	CRC32 uint32

	// Offset is the byte offset of the entry's local file header.
	Offset uint32

	// UTF8 reports whether general purpose bit 11 is set for the entry.
	UTF8 bool
}

// Archive is an encoded ZIP archive held in memory.
//
// An Archive is immutable and safe for concurrent use.
type Archive struct {
	data      []byte
	entries   []EntryInfo
	dirOffset uint32
	dirSize   uint32

	digestOnce sync.Once
	digest     digest.Digest
}

func newArchive(data []byte, entries []zipfmt.Entry, dirOffset, dirSize uint32) *Archive {
	infos := make([]EntryInfo, len(entries))
	for i, e := range entries {
		infos[i] = EntryInfo{
			Name:   string(e.Name),
			Size:   uint32(len(e.Data)), //nolint:gosec // bounded by the builder
			CRC32:  e.CRC32,
			Offset: e.Offset,
			UTF8:   e.Flags&zipfmt.FlagUTF8 != 0,
		}
	}
	return &Archive{
		data:      data,
		entries:   infos,
		dirOffset: dirOffset,
		dirSize:   dirSize,
	}
}

// Bytes returns the encoded archive. The returned slice must not be modified.
func (a *Archive) Bytes() []byte {
	return a.data
}

// Size returns the archive length in bytes.
func (a *Archive) Size() int64 {
	return int64(len(a.data))
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns entry metadata in archive order.
func (a *Archive) Entries() []EntryInfo {
	out := make([]EntryInfo, len(a.entries))
	copy(out, a.entries)
	return out
}

// CentralDirectoryOffset returns the byte offset where the central directory begins.
func (a *Archive) CentralDirectoryOffset() uint32 {
	return a.dirOffset
}

// CentralDirectorySize returns the total length of the central directory records.
func (a *Archive) CentralDirectorySize() uint32 {
	return a.dirSize
}

// Digest returns the SHA-256 digest of the archive bytes.
func (a *Archive) Digest() digest.Digest {
	a.digestOnce.Do(func() {
		a.digest = digest.FromBytes(a.data)
	})
	return a.digest
}

// Descriptor returns an OCI content descriptor for the archive.
func (a *Archive) Descriptor() ocispec.Descriptor {
	return ocispec.Descriptor{
		MediaType: MediaType,
		Digest:    a.Digest(),
		Size:      a.Size(),
	}
}

// NewReader returns a reader over the archive bytes.
func (a *Archive) NewReader() *bytes.Reader {
	return bytes.NewReader(a.data)
}

// WriteTo writes the archive to w.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}
