/*
NAME
  rawpcm.go

DESCRIPTION
  rawpcm.go contains the raw PCM message writer.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package extract

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ausocean/voiceware/rom"
)

// saveRaw copies a raw PCM message, mode byte included, to a .pcm file. The
// range runs from the message start to the next message's start, or to the
// end of the segment for the last message, clamped to the ROM size.
func (e *Extractor) saveRaw(seg *rom.Segment, i, start int, base string) error {
	end := seg.Base + rom.SegmentSize
	if i+1 < len(seg.Offsets) {
		end = seg.Base + 2*int(seg.Offsets[i+1])
	}
	if end > e.img.Len() {
		end = e.img.Len()
	}
	if end <= start {
		return errors.Errorf("empty raw PCM range [%#x,%#x)", start, end)
	}

	b, err := e.img.Slice(start, end-start)
	if err != nil {
		return errors.Wrap(err, "reading raw PCM range")
	}

	name := filepath.Join(e.cfg.OutDir, base+".pcm")
	if err := os.WriteFile(name, b, 0644); err != nil {
		return errors.Wrap(err, "writing raw PCM file")
	}
	e.cfg.Logger.Info("wrote raw pcm", "file", name, "bytes", len(b))
	return nil
}
