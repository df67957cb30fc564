/*
NAME
  extract.go

DESCRIPTION
  extract.go contains the extractor which drives decoding of VoiceWare ROM
  images into wav and raw pcm files.

AUTHORS
  Trek Hopton <trek@ausocean.org>
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package extract drives decoding of Nortel Millennium VoiceWare ROM images.
// ADPCM messages become wav files, raw PCM messages are copied to .pcm
// files, and list mode emits an inventory in the mapping-file format.
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/ausocean/voiceware/codec/pcm"
	"github.com/ausocean/voiceware/codec/upd7759"
	"github.com/ausocean/voiceware/codec/wav"
	"github.com/ausocean/voiceware/mapping"
	"github.com/ausocean/voiceware/rom"
)

// Message modes, the first byte of every message.
const (
	ModeADPCM  = 0x00
	ModeRawPCM = 0x40
)

// VoiceWare audio is always 8 kHz 16-bit mono.
const (
	sampleRate = 8000
	bitDepth   = 16
	channels   = 1
)

// album is the IALB metadata value stamped into every wav.
const album = "Nortel Millennium VoiceWare"

// dateFormat renders the ICRD creation date.
const dateFormat = "2006-01-02"

// Logger is the logging interface required by the extractor. It is satisfied
// by *log.Logger from github.com/charmbracelet/log.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Config provides parameters for an Extractor. A new config must be passed
// to the constructor.
type Config struct {
	// ROM is the path of the ROM image to decode.
	ROM string

	// OutDir is the directory output files are written to. Defaults to the
	// current directory.
	OutDir string

	// Mappings optionally supplies output names and comments per message.
	Mappings *mapping.Index

	// Target is the absolute index of the single message to decode, or a
	// negative value to decode every message. Ignored in list mode.
	Target int

	List    bool // Emit an inventory instead of decoding.
	Verbose bool // Stream per-opcode trace lines to stderr.
	Quiet   bool // Suppress non-error output; forces Verbose off.

	// Logger is required.
	Logger Logger

	// Out is the destination for the inventory. Defaults to os.Stdout.
	Out io.Writer

	// Now is the clock used for the ICRD stamp. Defaults to time.Now.
	Now func() time.Time
}

// Extractor decodes the messages of a single ROM image.
type Extractor struct {
	cfg     Config
	img     *rom.Image
	romName string
}

// New returns an Extractor for the ROM named by cfg, applying defaults for
// unset optional fields.
func New(cfg Config) (*Extractor, error) {
	if cfg.Logger == nil {
		return nil, errors.New("no logger provided")
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Quiet {
		cfg.Verbose = false
	}

	img, err := rom.Read(cfg.ROM)
	if err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg, img: img, romName: filepath.Base(cfg.ROM)}, nil
}

// Run processes every message of the ROM in ascending (segment, in-segment)
// order, which is also ascending absolute index order. Per-message failures
// are logged and skipped; an invalid first segment, a missing target index,
// or a failure of the explicitly targeted message fail the run.
func (e *Extractor) Run() error {
	if e.cfg.List {
		_, err := fmt.Fprintf(e.cfg.Out, "# ROM: %s\n\n", e.romName)
		if err != nil {
			return errors.Wrap(err, "writing inventory header")
		}
	}

	target := e.cfg.Target
	if e.cfg.List {
		target = -1
	}

	it := rom.NewIterator(e.img)
	abs := 0
	for {
		seg, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		e.cfg.Logger.Debug("segment", "index", seg.Index, "base", seg.Base, "messages", len(seg.Offsets))

		for i := range seg.Offsets {
			if target >= 0 && abs+i != target {
				continue
			}
			err := e.message(seg, i, abs+i)
			if err != nil {
				if target >= 0 {
					return errors.Wrapf(err, "message %d", target)
				}
				e.cfg.Logger.Warn("skipping message", "segment", seg.Index, "message", i, "error", err.Error())
			}
			if target >= 0 {
				return nil
			}
		}
		abs += len(seg.Offsets)
	}

	if target >= 0 {
		return errors.Errorf("message index %d not found (ROM has %d messages)", target, abs)
	}
	return nil
}

// message dispatches a single message to the lister or to the decoder
// appropriate for its mode.
func (e *Extractor) message(seg *rom.Segment, i, abs int) error {
	start := seg.Base + 2*int(seg.Offsets[i])
	mode, err := e.img.ByteAt(start)
	if err != nil {
		return errors.Wrap(err, "bad message offset")
	}

	base, comment := e.name(seg.Index, i)

	if e.cfg.List {
		return e.list(seg.Index, i, mode, base, comment)
	}

	switch mode {
	case ModeADPCM:
		return e.decode(seg, i, abs, start, base, comment)
	case ModeRawPCM:
		return e.saveRaw(seg, i, start, base)
	default:
		return errors.Errorf("unknown message mode %#02x", mode)
	}
}

// name returns the output base name and comment for a message: the mapped
// values if a mapping exists, a generated name otherwise.
func (e *Extractor) name(seg, msg int) (base, comment string) {
	if e.cfg.Mappings != nil {
		if m := e.cfg.Mappings.Lookup(seg, msg); m != nil {
			return m.Base, m.Comment
		}
	}
	return fmt.Sprintf("message_%d_%03d", seg, msg), ""
}

// decode decodes one ADPCM message and writes it out as a wav file. A
// message with no samples is valid and produces no file. A message cut off
// by the end of the ROM is kept, with a warning, if it produced samples.
func (e *Extractor) decode(seg *rom.Segment, i, abs, start int, base, comment string) error {
	buf := pcm.NewBuffer(pcm.BufferFormat{SFormat: pcm.S16_LE, Rate: sampleRate, Channels: channels})
	dec := upd7759.NewDecoder(buf)
	if e.cfg.Verbose {
		dec.Trace = os.Stderr
	}

	err := dec.Decode(e.img.Data(), start+1)
	if err != nil {
		if err != upd7759.ErrTruncated || buf.Len() == 0 {
			return err
		}
		e.cfg.Logger.Warn("message truncated by end of ROM", "segment", seg.Index, "message", i, "samples", buf.Len())
	}

	if buf.Len() == 0 {
		e.cfg.Logger.Info("message has no samples, no file written", "segment", seg.Index, "message", i)
		return nil
	}

	w := &wav.WAV{
		Metadata: wav.Metadata{
			AudioFormat: wav.PCMFormat,
			Channels:    channels,
			SampleRate:  sampleRate,
			BitDepth:    bitDepth,
		},
		Info: wav.Info{
			Album:        album,
			Artist:       e.romName,
			Title:        base,
			Track:        strconv.Itoa(abs),
			CreationDate: e.cfg.Now().Format(dateFormat),
			Comment:      comment,
		},
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "encoding wav")
	}

	name := filepath.Join(e.cfg.OutDir, base+".wav")
	if err := os.WriteFile(name, w.Audio, 0644); err != nil {
		return errors.Wrap(err, "writing wav file")
	}
	e.cfg.Logger.Info("wrote wav", "file", name, "index", abs, "samples", buf.Len())
	return nil
}
