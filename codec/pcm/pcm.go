/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains types for accumulating and describing pcm audio.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package pcm provides types for accumulating and describing pcm audio.
package pcm

import "encoding/binary"

// SampleFormat is the format that a PCM Buffer's samples can be in.
type SampleFormat int

// Used to represent an unknown format.
const (
	Unknown SampleFormat = -1
)

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
	// There are many more:
	// https://linux.die.net/man/1/arecord
	// https://trac.ffmpeg.org/wiki/audio%20types
)

// initCap is the initial sample capacity of a Buffer.
const initCap = 2048

// BufferFormat contains the format for a PCM Buffer.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// Buffer is an append-only buffer of 16-bit PCM samples and the format that
// they are in.
type Buffer struct {
	Format  BufferFormat
	samples []int16
}

// NewBuffer returns a Buffer of the given format.
func NewBuffer(f BufferFormat) *Buffer {
	return &Buffer{Format: f, samples: make([]int16, 0, initCap)}
}

// Append appends samples to the buffer.
func (b *Buffer) Append(s ...int16) {
	b.samples = append(b.samples, s...)
}

// AppendZeros appends n zero samples to the buffer.
func (b *Buffer) AppendZeros(n int) {
	for i := 0; i < n; i++ {
		b.samples = append(b.samples, 0)
	}
}

// Len returns the number of samples in the buffer.
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Samples returns the samples in the buffer.
func (b *Buffer) Samples() []int16 {
	return b.samples
}

// Bytes returns the samples as little-endian bytes.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 2*len(b.samples))
	for i, s := range b.samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.samples = b.samples[:0]
}

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	default:
		return "Unknown"
	}
}
