/*
NAME
  rom.go

DESCRIPTION
  rom.go contains the VoiceWare ROM image type and the fixed-pitch segment
  iterator used to traverse its message tables.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package rom provides access to Nortel Millennium VoiceWare ROM images:
// bounds-checked big-endian reads and traversal of the 128 KiB message
// segments that make up an image.
package rom

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// SegmentSize is the pitch between segment bases. Segments are page-aligned
// in the physical ROM, so the iterator advances by this amount regardless of
// how much of a segment its payload actually uses.
const SegmentSize = 128 * 1024

// headerSize is the count byte plus the magic.
const headerSize = 5

// Magic is the signature following the message count byte in every valid
// segment header.
var Magic = [4]byte{0x5A, 0xA5, 0x69, 0x55}

// Image is an owned, immutable ROM image. All reads are bounds-checked; an
// out-of-range access is an error, never a panic.
type Image struct {
	data []byte
}

// Read loads the ROM image at path. A zero-size file is rejected.
func Read(path string) (*Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not read ROM")
	}
	if len(b) == 0 {
		return nil, errors.Errorf("ROM %s is empty", path)
	}
	return &Image{data: b}, nil
}

// NewImage returns an Image backed by the given bytes. The caller must not
// modify b after the call.
func NewImage(b []byte) *Image {
	return &Image{data: b}
}

// Len returns the size of the image in bytes.
func (img *Image) Len() int {
	return len(img.data)
}

// Data returns the underlying bytes of the image. The returned slice must be
// treated as read-only.
func (img *Image) Data() []byte {
	return img.data
}

// ByteAt returns the byte at off.
func (img *Image) ByteAt(off int) (byte, error) {
	if off < 0 || off >= len(img.data) {
		return 0, errors.Errorf("byte read at %#x outside ROM of %d bytes", off, len(img.data))
	}
	return img.data[off], nil
}

// U16BE returns the big-endian 16-bit value at off, valid iff
// off+2 <= Len().
func (img *Image) U16BE(off int) (uint16, error) {
	if off < 0 || off+2 > len(img.data) {
		return 0, errors.Errorf("u16 read at %#x outside ROM of %d bytes", off, len(img.data))
	}
	return binary.BigEndian.Uint16(img.data[off:]), nil
}

// Slice returns the n bytes starting at off.
func (img *Image) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(img.data) {
		return nil, errors.Errorf("slice [%#x,%#x) outside ROM of %d bytes", off, off+n, len(img.data))
	}
	return img.data[off : off+n], nil
}

// Segment is a logical view of one 128 KiB region of the ROM. Message i's
// mode byte is at Base + 2*Offsets[i]; the entries are word offsets from the
// segment base.
type Segment struct {
	Index   int
	Base    int
	Offsets []uint16
}

// Iterator walks the segments of an image in order.
type Iterator struct {
	img   *Image
	base  int
	index int
}

// NewIterator returns an Iterator positioned at the first segment of img.
func NewIterator(img *Image) *Iterator {
	return &Iterator{img: img}
}

// Next returns the next segment of the image, or io.EOF once traversal is
// complete. A short or invalid header, or an offset table that overruns the
// segment or the ROM, is an error for the first segment and a clean stop for
// any later one; trailing junk and truncated files terminate traversal
// rather than failing it.
func (it *Iterator) Next() (*Segment, error) {
	base := it.base
	if base+headerSize > it.img.Len() {
		if base == 0 {
			return nil, errors.Errorf("ROM of %d bytes is too small for a segment header", it.img.Len())
		}
		return nil, io.EOF
	}
	for i, m := range Magic {
		if it.img.data[base+1+i] != m {
			if base == 0 {
				return nil, errors.Errorf("bad magic in first segment header at offset %#x", base+1+i)
			}
			return nil, io.EOF
		}
	}

	count := int(it.img.data[base]) + 1
	end := base + headerSize + 2*count
	limit := base + SegmentSize
	if it.img.Len() < limit {
		limit = it.img.Len()
	}
	if end > limit {
		if base == 0 {
			return nil, errors.Errorf("offset table for %d messages overruns segment at %#x", count, base)
		}
		return nil, io.EOF
	}

	offs := make([]uint16, count)
	for i := range offs {
		offs[i] = binary.BigEndian.Uint16(it.img.data[base+headerSize+2*i:])
	}

	seg := &Segment{Index: it.index, Base: base, Offsets: offs}
	it.base += SegmentSize
	it.index++
	return seg, nil
}
