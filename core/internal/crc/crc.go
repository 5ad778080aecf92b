// Package crc implements the CRC-32 checksum used by the ZIP format
// (CRC-32/ISO-HDLC, reflected polynomial 0xEDB88320).
package crc

import "hash"

// Size is the size of a CRC-32 checksum in bytes.
const Size = 4

// Polynomial is the reflected form of 0x04C11DB7.
const Polynomial = 0xEDB88320

// table is read-only after package initialization and safe for concurrent use.
var table = makeTable(Polynomial)

func makeTable(poly uint32) *[256]uint32 {
	t := new([256]uint32)
	for i := range t {
		c := uint32(i) //nolint:gosec // i is bounded 0-255
		for range 8 {
			if c&1 == 1 {
				c = (c >> 1) ^ poly
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// update folds p into a pre-inverted register value.
func update(reg uint32, p []byte) uint32 {
	for _, b := range p {
		reg = table[byte(reg)^b] ^ (reg >> 8)
	}
	return reg
}

// Checksum returns the CRC-32 of data.
func Checksum(data []byte) uint32 {
	return update(0xFFFFFFFF, data) ^ 0xFFFFFFFF
}

// Update returns the result of adding the bytes in p to a running checksum
// previously returned by Checksum or Update.
func Update(crc uint32, p []byte) uint32 {
	return update(crc^0xFFFFFFFF, p) ^ 0xFFFFFFFF
}

// digest implements hash.Hash32 over the package table.
type digest struct {
	crc uint32
}

// New returns a streaming CRC-32 hash.
func New() hash.Hash32 {
	return &digest{}
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return 1 }

func (d *digest) Reset() { d.crc = 0 }

func (d *digest) Write(p []byte) (int, error) {
	d.crc = Update(d.crc, p)
	return len(p), nil
}

func (d *digest) Sum32() uint32 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	s := d.Sum32()
	return append(in, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
}
