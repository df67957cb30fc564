/*
NAME
  lister.go

DESCRIPTION
  lister.go contains the inventory lister, whose output is itself a valid
  mapping file.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


package extract

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Tab geometry for the comment column. At least one tab always separates the
// name from the comment, even for names past the target column.
const (
	tabWidth      = 8
	commentColumn = 40
)

// pcmNote is appended to the comment of raw PCM messages unless the mapped
// comment already carries it.
const pcmNote = "(PCM)"

// list emits one inventory line for a message.
func (e *Extractor) list(seg, msg int, mode byte, base, comment string) error {
	stops := len(base) / tabWidth
	n := (commentColumn+tabWidth-1)/tabWidth - stops
	if n < 1 {
		n = 1
	}

	line := fmt.Sprintf("%d\t%d\t%s%s#", seg, msg, base, strings.Repeat("\t", n))
	if mode == ModeRawPCM && !strings.Contains(comment, pcmNote) {
		line += " " + pcmNote
	}
	if comment != "" {
		line += " " + comment
	}

	_, err := fmt.Fprintln(e.cfg.Out, line)
	return errors.Wrap(err, "writing inventory line")
}
