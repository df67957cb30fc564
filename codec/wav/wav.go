/*
NAME
  wav.go

DESCRIPTION
  wav.go contains functions for emitting wav files with INFO metadata.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package wav provides functions for emitting wav audio with LIST/INFO
// metadata. Chunk sizes are computed before anything is laid down, so the
// sizes written in the headers always match the bytes that follow them.
package wav

import (
	"encoding/binary"
	"fmt"
	"math"
)

const PCMFormat = 1 // PCMFormat defines the value for pcm audio as defined by the wav std.

var (
	errInvalidFormat   = fmt.Errorf("invalid or no format defined")
	errInvalidRate     = fmt.Errorf("invalid or no sample rate defined")
	errInvalidChannels = fmt.Errorf("invalid or no number of channels defined")
	errInvalidBitDepth = fmt.Errorf("invalid or no bit depth defined")
	errDataTooBig      = fmt.Errorf("data exceeds RIFF chunk size limit")
)

// Metadata defines the format of the audio data.
type Metadata struct {
	AudioFormat int
	Channels    int
	SampleRate  int
	BitDepth    int
}

// Info holds the LIST/INFO metadata written with the audio. The fields are
// emitted in this order as the IALB, IART, INAM, ITRK, ICRD and ICMT
// sub-chunks; ICMT is omitted when Comment is empty.
type Info struct {
	Album        string
	Artist       string
	Title        string
	Track        string
	CreationDate string
	Comment      string
}

// infoID pairs an INFO sub-chunk ID with its text.
type infoID struct {
	id   string
	text string
}

type WAV struct {
	Metadata Metadata
	Info     Info
	Audio    []byte
}

// Write writes the given audio byte slice to the WAV, encoding the
// appropriate headings and metadata. The complete file image is left in
// w.Audio and its length returned.
func (w *WAV) Write(p []byte) (n int, err error) {
	if w.Metadata.AudioFormat != PCMFormat { // TODO: allow for more encoding formats.
		return 0, errInvalidFormat
	}
	if w.Metadata.Channels == 0 {
		return 0, errInvalidChannels
	}
	if w.Metadata.SampleRate == 0 {
		return 0, errInvalidRate
	}
	if w.Metadata.BitDepth == 0 {
		return 0, errInvalidBitDepth
	}
	if uint64(len(p)) > math.MaxUint32 {
		return 0, errDataTooBig
	}

	info := make([]infoID, 0, 6)
	for _, c := range []infoID{
		{"IALB", w.Info.Album},
		{"IART", w.Info.Artist},
		{"INAM", w.Info.Title},
		{"ITRK", w.Info.Track},
		{"ICRD", w.Info.CreationDate},
		{"ICMT", w.Info.Comment},
	} {
		if c.id != "ICMT" || c.text != "" {
			info = append(info, c)
		}
	}

	// Sub-chunk sizes count the trailing NUL; a pad byte follows any odd
	// sized body. The data chunk obeys the same pad rule.
	listLen := 4 // "INFO"
	for _, c := range info {
		listLen += 8 + pad(len(c.text)+1)
	}
	riffLen := 4 + (8 + 16) + (8 + listLen) + (8 + pad(len(p)))
	if uint64(riffLen) > math.MaxUint32 {
		return 0, errDataTooBig
	}

	buf := make([]byte, 0, 8+riffLen)
	buf = append(buf, "RIFF"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(riffLen))
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = binary.LittleEndian.AppendUint32(buf, 16)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(w.Metadata.AudioFormat))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(w.Metadata.Channels))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(w.Metadata.SampleRate))
	buf = binary.LittleEndian.AppendUint32(buf, uint32((w.Metadata.SampleRate*w.Metadata.BitDepth*w.Metadata.Channels)/8))
	buf = binary.LittleEndian.AppendUint16(buf, uint16((w.Metadata.BitDepth*w.Metadata.Channels)/8))
	buf = binary.LittleEndian.AppendUint16(buf, uint16(w.Metadata.BitDepth))

	buf = append(buf, "LIST"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(listLen))
	buf = append(buf, "INFO"...)
	for _, c := range info {
		buf = append(buf, c.id...)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(c.text)+1))
		buf = append(buf, c.text...)
		buf = append(buf, 0)
		if (len(c.text)+1)%2 != 0 {
			buf = append(buf, 0)
		}
	}

	buf = append(buf, "data"...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(p)))
	buf = append(buf, p...)
	if len(p)%2 != 0 {
		buf = append(buf, 0)
	}

	w.Audio = buf
	return len(w.Audio), nil
}

// pad rounds n up to RIFF word alignment.
func pad(n int) int {
	return n + n%2
}
