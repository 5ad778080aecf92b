// Package zipfmt encodes the fixed-width records of a stored (method 0)
// single-disk ZIP archive: local file headers, central directory records,
// and the end of central directory record.
//
// All multi-byte fields are little-endian. See PKWARE APPNOTE.TXT sections
// 4.3.7 (local file header), 4.3.12 (central directory header) and
// 4.3.16 (end of central directory record).
package zipfmt

import (
	"encoding/binary"

	"github.com/meigma/storezip/core/internal/crc"
)

// Record signatures.
const (
	LocalFileHeaderSignature       uint32 = 0x04034b50
	CentralDirectorySignature      uint32 = 0x02014b50
	EndOfCentralDirectorySignature uint32 = 0x06054b50
)

// Fixed record lengths, excluding variable-length trailers.
const (
	LocalFileHeaderLen       = 30
	CentralDirectoryLen      = 46
	EndOfCentralDirectoryLen = 22
)

// Format limits for the non-Zip64 fields used by this encoder.
const (
	MaxEntries = 0xFFFF
	MaxNameLen = 0xFFFF
	MaxSize    = 0xFFFFFFFF
)

const (
	// Version is "ZIP 2.0", written as both version made by and version needed.
	Version uint16 = 20

	// MethodStore is the stored (uncompressed) compression method.
	MethodStore uint16 = 0

	// FlagUTF8 is general purpose bit 11: name and comment are UTF-8.
	FlagUTF8 uint16 = 0x0800
)

// Entry is the per-file metadata shared by the local header and the
// central directory record. The CRC is computed once in NewEntry and
// reused for both records.
type Entry struct {
	Name   []byte
	Data   []byte
	CRC32  uint32
	Offset uint32
	Flags  uint16
}

// NewEntry encodes name and content as UTF-8 bytes and checksums the content.
// Callers must check that the lengths fit the format before encoding.
func NewEntry(name, content string, offset uint32, flags uint16) Entry {
	data := []byte(content)
	return Entry{
		Name:   []byte(name),
		Data:   data,
		CRC32:  crc.Checksum(data),
		Offset: offset,
		Flags:  flags,
	}
}

// LocalLen is the byte length of the entry's local segment: header, name and data.
func (e Entry) LocalLen() uint64 {
	return LocalFileHeaderLen + uint64(len(e.Name)) + uint64(len(e.Data))
}

// CentralLen is the byte length of the entry's central directory record including the name.
func (e Entry) CentralLen() uint64 {
	return CentralDirectoryLen + uint64(len(e.Name))
}

// EncodeLocalHeader returns the 30-byte local file header for e.
// The name and data follow it in the archive and are not included.
//
//nolint:gosec // lengths are bounds-checked by the builder
func EncodeLocalHeader(e Entry) [LocalFileHeaderLen]byte {
	var b [LocalFileHeaderLen]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], LocalFileHeaderSignature)
	le.PutUint16(b[4:6], Version)
	le.PutUint16(b[6:8], e.Flags)
	le.PutUint16(b[8:10], MethodStore)
	le.PutUint16(b[10:12], 0) // mod time
	le.PutUint16(b[12:14], 0) // mod date
	le.PutUint32(b[14:18], e.CRC32)
	le.PutUint32(b[18:22], uint32(len(e.Data))) // compressed
	le.PutUint32(b[22:26], uint32(len(e.Data))) // uncompressed
	le.PutUint16(b[26:28], uint16(len(e.Name)))
	le.PutUint16(b[28:30], 0) // extra
	return b
}

// EncodeCentralRecord returns the 46-byte central directory record for e.
// The name follows it in the archive and is not included.
//
//nolint:gosec // lengths are bounds-checked by the builder
func EncodeCentralRecord(e Entry) [CentralDirectoryLen]byte {
	var b [CentralDirectoryLen]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], CentralDirectorySignature)
	le.PutUint16(b[4:6], Version) // made by
	le.PutUint16(b[6:8], Version) // needed
	le.PutUint16(b[8:10], e.Flags)
	le.PutUint16(b[10:12], MethodStore)
	le.PutUint16(b[12:14], 0) // mod time
	le.PutUint16(b[14:16], 0) // mod date
	le.PutUint32(b[16:20], e.CRC32)
	le.PutUint32(b[20:24], uint32(len(e.Data)))
	le.PutUint32(b[24:28], uint32(len(e.Data)))
	le.PutUint16(b[28:30], uint16(len(e.Name)))
	le.PutUint16(b[30:32], 0) // extra
	le.PutUint16(b[32:34], 0) // comment
	le.PutUint16(b[34:36], 0) // disk number start
	le.PutUint16(b[36:38], 0) // internal attrs
	le.PutUint32(b[38:42], 0) // external attrs
	le.PutUint32(b[42:46], e.Offset)
	return b
}

// EncodeEOCD returns the 22-byte end of central directory record for a
// single-disk archive with no comment.
func EncodeEOCD(entries uint16, dirSize, dirOffset uint32) [EndOfCentralDirectoryLen]byte {
	var b [EndOfCentralDirectoryLen]byte
	le := binary.LittleEndian
	le.PutUint32(b[0:4], EndOfCentralDirectorySignature)
	le.PutUint16(b[4:6], 0) // this disk
	le.PutUint16(b[6:8], 0) // disk with central directory
	le.PutUint16(b[8:10], entries)
	le.PutUint16(b[10:12], entries)
	le.PutUint32(b[12:16], dirSize)
	le.PutUint32(b[16:20], dirOffset)
	le.PutUint16(b[20:22], 0) // comment length
	return b
}

// IsASCII reports whether name contains only 7-bit bytes.
func IsASCII(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= 0x80 {
			return false
		}
	}
	return true
}
