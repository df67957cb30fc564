/*
NAME
  mapping.go

DESCRIPTION
  mapping.go contains the message mapping schema, its tab-separated file
  loader, and the index used to look mappings up during extraction.

AUTHOR
  Alan Noble <alan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/


// Package mapping provides user-supplied names and comments for VoiceWare
// messages, keyed by (segment index, in-segment index). Mapping files are
// tab-separated text: seg, msg, output base name and an optional comment per
// line, with blank lines and #-comment lines skipped.
package mapping

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Mapping names the output of a single message and optionally carries a
// free-form comment.
type Mapping struct {
	Segment int
	Msg     int
	Base    string
	Comment string
}

// Index is an ordered collection of mappings. Lookup is linear; callers must
// tolerate O(n) behaviour.
type Index struct {
	maps []Mapping
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// Add adds m to the index. A mapping with the same (segment, msg) key as an
// earlier one replaces it.
func (x *Index) Add(m Mapping) {
	for i := range x.maps {
		if x.maps[i].Segment == m.Segment && x.maps[i].Msg == m.Msg {
			x.maps[i] = m
			return
		}
	}
	x.maps = append(x.maps, m)
}

// Lookup returns the mapping for (seg, msg), or nil if there is none.
func (x *Index) Lookup(seg, msg int) *Mapping {
	for i := range x.maps {
		if x.maps[i].Segment == seg && x.maps[i].Msg == msg {
			return &x.maps[i]
		}
	}
	return nil
}

// Size returns the number of mappings in the index.
func (x *Index) Size() int {
	return len(x.maps)
}

// Load reads the mapping file at path.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open mapping file")
	}
	defer f.Close()
	x, err := Parse(f)
	return x, errors.Wrapf(err, "parsing %s", path)
}

// Parse reads mappings from r. Malformed records abort the parse with a
// line-numbered error.
func Parse(r io.Reader) (*Index, error) {
	x := NewIndex()
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := sc.Text()
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}

		fields := strings.SplitN(line, "\t", 4)
		if len(fields) < 3 {
			return nil, errors.Errorf("line %d: want seg<TAB>msg<TAB>name, got %d fields", ln, len(fields))
		}
		seg, err := index(fields[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad segment index %q", ln, fields[0])
		}
		msg, err := index(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: bad message index %q", ln, fields[1])
		}

		m := Mapping{
			Segment: seg,
			Msg:     msg,
			Base:    strings.TrimRight(fields[2], " \t"),
		}
		if len(fields) == 4 {
			m.Comment = CleanComment(fields[3])
		}
		x.Add(m)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading mapping file")
	}
	return x, nil
}

// index parses a non-negative decimal message or segment index.
func index(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.Errorf("index %d is negative", n)
	}
	return n, nil
}

// CleanComment strips leading whitespace, then a single leading '#', then
// any whitespace immediately following that '#'.
func CleanComment(s string) string {
	s = strings.TrimLeft(s, " \t")
	if strings.HasPrefix(s, "#") {
		s = strings.TrimLeft(s[1:], " \t")
	}
	return s
}
