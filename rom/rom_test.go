/*
NAME
  rom_test.go

DESCRIPTION
  rom_test.go contains tests for the rom package.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package rom

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// segment builds one full-size segment holding the given messages placed
// consecutively after the offset table, each aligned to a word boundary.
func segment(msgs ...[]byte) []byte {
	s := make([]byte, SegmentSize)
	s[0] = byte(len(msgs) - 1)
	copy(s[1:5], Magic[:])
	pos := 5 + 2*len(msgs)
	if pos%2 != 0 {
		pos++
	}
	for i, m := range msgs {
		binary.BigEndian.PutUint16(s[5+2*i:], uint16(pos/2))
		copy(s[pos:], m)
		pos += len(m)
		if pos%2 != 0 {
			pos++
		}
	}
	return s
}

func TestImageReads(t *testing.T) {
	img := NewImage([]byte{0x12, 0x34, 0x56})

	if got := img.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}

	b, err := img.ByteAt(2)
	if err != nil || b != 0x56 {
		t.Errorf("ByteAt(2) = %#x, %v, want 0x56, nil", b, err)
	}
	if _, err := img.ByteAt(3); err == nil {
		t.Error("ByteAt(3) did not error")
	}
	if _, err := img.ByteAt(-1); err == nil {
		t.Error("ByteAt(-1) did not error")
	}

	v, err := img.U16BE(0)
	if err != nil || v != 0x1234 {
		t.Errorf("U16BE(0) = %#x, %v, want 0x1234, nil", v, err)
	}
	if _, err := img.U16BE(2); err == nil {
		t.Error("U16BE(2) did not error")
	}

	s, err := img.Slice(1, 2)
	if err != nil || string(s) != "\x34\x56" {
		t.Errorf("Slice(1,2) = %x, %v", s, err)
	}
	if _, err := img.Slice(1, 3); err == nil {
		t.Error("Slice(1,3) did not error")
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "empty.rom")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("could not write test ROM: %v", err)
	}
	if _, err := Read(path); err == nil {
		t.Error("Read of empty ROM did not error")
	}

	path = filepath.Join(dir, "tones.rom")
	if err := os.WriteFile(path, segment([]byte{0x00, 0x00}), 0644); err != nil {
		t.Fatalf("could not write test ROM: %v", err)
	}
	img, err := Read(path)
	if err != nil {
		t.Fatalf("Read errored: %v", err)
	}
	if img.Len() != SegmentSize {
		t.Errorf("Len() = %d, want %d", img.Len(), SegmentSize)
	}
}

func TestIterator(t *testing.T) {
	img := NewImage(segment([]byte{0x00, 0x00}, []byte{0x40, 0x01}))
	it := NewIterator(img)

	seg, err := it.Next()
	if err != nil {
		t.Fatalf("Next errored: %v", err)
	}
	want := &Segment{Index: 0, Base: 0, Offsets: []uint16{5, 6}}
	if diff := cmp.Diff(want, seg); diff != "" {
		t.Errorf("unexpected segment (-want +got):\n%s", diff)
	}

	if _, err := it.Next(); err != io.EOF {
		t.Errorf("second Next = %v, want io.EOF", err)
	}
}

func TestIteratorFirstSegmentErrors(t *testing.T) {
	badMagic := segment([]byte{0x00, 0x00})
	badMagic[3] ^= 0xFF

	overrun := make([]byte, 100)
	overrun[0] = 199 // 200 messages: table needs 405 bytes.
	copy(overrun[1:5], Magic[:])

	tests := []struct {
		name string
		rom  []byte
	}{
		{"too small for header", []byte{0x00, 0x5A, 0xA5}},
		{"bad magic", badMagic},
		{"offset table overruns ROM", overrun},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIterator(NewImage(tt.rom)).Next()
			if err == nil || err == io.EOF {
				t.Errorf("Next = %v, want hard error", err)
			}
		})
	}
}

func TestIteratorCleanTermination(t *testing.T) {
	junk := make([]byte, 100)
	for i := range junk {
		junk[i] = 0xFF
	}

	tests := []struct {
		name  string
		trail []byte
	}{
		{"exact end", nil},
		{"truncated trailing header", []byte{0x00, 0x5A, 0xA5}},
		{"trailing junk", junk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := NewImage(append(segment([]byte{0x00, 0x00}), tt.trail...))
			it := NewIterator(img)
			if _, err := it.Next(); err != nil {
				t.Fatalf("first Next errored: %v", err)
			}
			if _, err := it.Next(); err != io.EOF {
				t.Errorf("second Next = %v, want io.EOF", err)
			}
		})
	}
}

// TestIteratorStride checks that segment bases advance by the fixed pitch
// regardless of payload length.
func TestIteratorStride(t *testing.T) {
	img := NewImage(append(segment([]byte{0x00, 0x00}), segment([]byte{0x40, 0x01}, []byte{0x00, 0x00})...))
	it := NewIterator(img)

	first, err := it.Next()
	if err != nil {
		t.Fatalf("first Next errored: %v", err)
	}
	second, err := it.Next()
	if err != nil {
		t.Fatalf("second Next errored: %v", err)
	}

	if first.Base != 0 || second.Base != SegmentSize {
		t.Errorf("bases = %d, %d, want 0, %d", first.Base, second.Base, SegmentSize)
	}
	if first.Index != 0 || second.Index != 1 {
		t.Errorf("indices = %d, %d, want 0, 1", first.Index, second.Index)
	}
	if _, err := it.Next(); err != io.EOF {
		t.Errorf("third Next = %v, want io.EOF", err)
	}
}

// TestIteratorSequence checks that for any valid ROM the traversal yields
// every segment in order with a gapless message count.
func TestIteratorSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nSegs := rapid.IntRange(1, 4).Draw(t, "segments")
		counts := make([]int, nSegs)
		var data []byte
		for i := range counts {
			counts[i] = rapid.IntRange(1, 8).Draw(t, "count")
			msgs := make([][]byte, counts[i])
			for j := range msgs {
				msgs[j] = []byte{0x00, 0x00}
			}
			data = append(data, segment(msgs...)...)
		}

		it := NewIterator(NewImage(data))
		total := 0
		for i := 0; ; i++ {
			seg, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatalf("Next errored: %v", err)
			}
			if seg.Index != i || seg.Base != i*SegmentSize {
				t.Fatalf("segment %d: index %d, base %d", i, seg.Index, seg.Base)
			}
			if len(seg.Offsets) != counts[i] {
				t.Fatalf("segment %d: %d offsets, want %d", i, len(seg.Offsets), counts[i])
			}
			total += len(seg.Offsets)
		}

		want := 0
		for _, c := range counts {
			want += c
		}
		if total != want {
			t.Fatalf("total messages = %d, want %d", total, want)
		}
	})
}
