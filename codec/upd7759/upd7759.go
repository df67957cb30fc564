/*
NAME
  upd7759.go

DESCRIPTION
  upd7759.go contains a decoder for NEC uPD7759 ADPCM command streams.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package upd7759 decodes the ADPCM command streams understood by the NEC
// uPD7759 speech IC into 16-bit PCM samples. A stream is a sequence of
// opcodes: an end marker, silence runs, and short, long and repeat data
// blocks whose nibbles drive a table-indexed predictor.
package upd7759

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/ausocean/voiceware/codec/pcm"
)

// Opcode ranges. All 256 values are covered: 0x00 ends the message,
// 0x01..0x3F are silence runs, and the rest are data blocks.
const (
	opEnd      = 0x00
	silenceMax = 0x3F
	shortMax   = 0x7F
	longMax    = 0xBF
)

// shortNibbles is the nibble count of a short data block; silenceUnit is the
// number of zero samples per unit of a silence run.
const (
	shortNibbles = 256
	silenceUnit  = 8
)

// ErrTruncated reports that the ROM ended in the middle of a command stream.
// A caller may still accept the message if samples were produced before the
// truncation.
var ErrTruncated = errors.New("command stream truncated by end of ROM")

// Decoder decodes a single uPD7759 message. The predictor and state index
// start at zero and are not carried across messages; use a fresh Decoder, or
// Reset, per message.
type Decoder struct {
	pred  int16 // Predicted sample, evolved by table deltas.
	state int   // Index into the step table rows, 0..15.

	// out is the destination for decoded samples.
	out *pcm.Buffer

	// Trace, when non-nil, receives one line per opcode.
	Trace io.Writer
}

// NewDecoder returns a Decoder which appends decoded samples to out.
func NewDecoder(out *pcm.Buffer) *Decoder {
	return &Decoder{out: out}
}

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	d.pred = 0
	d.state = 0
}

// Decode consumes the command stream in rom starting at off, the byte after
// the message's mode byte, appending samples to the decoder's buffer until
// the end opcode. Running off the end of rom while reading an opcode, a
// length byte or a data byte returns ErrTruncated; samples appended before
// that point remain in the buffer.
func (d *Decoder) Decode(rom []byte, off int) error {
	for {
		if off >= len(rom) {
			return ErrTruncated
		}
		c := rom[off]
		off++

		switch {
		case c == opEnd:
			d.trace(off-1, "end of message")
			return nil

		case c <= silenceMax:
			n := silenceUnit * int(c)
			d.trace(off-1, "silence, %d samples", n)
			d.out.AppendZeros(n)

		case c <= shortMax:
			d.trace(off-1, "short block, %d nibbles", shortNibbles)
			next, err := d.block(rom, off, shortNibbles, 0)
			if err != nil {
				return err
			}
			off = next

		case c <= longMax:
			if off >= len(rom) {
				return ErrTruncated
			}
			n := int(rom[off]) + 1
			off++
			d.trace(off-2, "long block, %d nibbles", n)
			next, err := d.block(rom, off, n, 0)
			if err != nil {
				return err
			}
			off = next

		default:
			if off >= len(rom) {
				return ErrTruncated
			}
			n := int(rom[off]) + 1
			off++
			r := int(c>>3) & 0x07
			d.trace(off-2, "repeat block, %d nibbles, %d replays", n, r)
			next, err := d.block(rom, off, n, r)
			if err != nil {
				return err
			}
			off = next
		}
	}
}

// block plays the n nibbles starting at off, then replays the same window r
// more times without resetting the predictor or state, and returns the
// offset of the byte following the window. Nibbles are taken high first; an
// odd n leaves the low nibble of the final byte unused.
func (d *Decoder) block(rom []byte, off, n, r int) (int, error) {
	for pass := 0; pass <= r; pass++ {
		for k := 0; k < n; k++ {
			p := off + k/2
			if p >= len(rom) {
				return 0, ErrTruncated
			}
			if k%2 == 0 {
				d.sample(rom[p] >> 4)
			} else {
				d.sample(rom[p] & 0x0F)
			}
		}
	}
	return off + (n+1)/2, nil
}

// sample runs one nibble through the predictor and appends the resulting
// sample. The emitted value is the predictor shifted up by 7 bits with
// saturation; the shift loses range for large predictors, which matches the
// uPD7759 output scaling.
func (d *Decoder) sample(v byte) {
	d.pred = capAdd16(d.pred, stepTable[d.state][v])

	d.state += int(stateTable[v])
	if d.state < 0 {
		d.state = 0
	} else if d.state > 15 {
		d.state = 15
	}

	s := int32(d.pred) << 7
	switch {
	case s < math.MinInt16:
		s = math.MinInt16
	case s > math.MaxInt16:
		s = math.MaxInt16
	}
	d.out.Append(int16(s))
}

// capAdd16 adds two int16s together and caps at max/min int16 instead of
// overflowing.
func capAdd16(a, b int16) int16 {
	c := int32(a) + int32(b)
	switch {
	case c < math.MinInt16:
		return math.MinInt16
	case c > math.MaxInt16:
		return math.MaxInt16
	default:
		return int16(c)
	}
}

// trace emits a debug line for the opcode at off if tracing is enabled.
func (d *Decoder) trace(off int, format string, args ...interface{}) {
	if d.Trace == nil {
		return
	}
	fmt.Fprintf(d.Trace, "%#06x: "+format+"\n", append([]interface{}{off}, args...)...)
}
