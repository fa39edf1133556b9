/*
 * res.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package res reads SHELX/RES structure files, as written by AIRSS, from a stream
// that may contain any number of them concatenated.
package res

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/res2desc/res2desc"
	"gonum.org/v1/gonum/spatial/r3"
)

// Keywords of the RES format that the reader understands. Everything else is ignored.
const (
	Header  = "TITL"
	Lattice = "CELL"
	Species = "SFAC"
	End     = "END"
)

// symbol, index, x, y, z, occupancy
var atomLine = regexp.MustCompile(`(\w+)\s+([0-9]+)\s+([0-9\-\.]+)\s+([0-9\-\.]+)\s+([0-9\-\.]+)\s+([0-9\-\.]+)`)

const maxLineLen = 1 << 20

// ParseStream reads all the RES blocks in r and returns one Record per block,
// in the order they appear. A block starts at a line with TITL as one of its tokens
// and runs until the next such line or the end of the stream. Anything before the
// first header is ignored. A stream without any header gives a single Record with
// no atoms and an empty Metadata.
func ParseStream(r io.Reader) ([]res2desc.Record, error) {
	var records []res2desc.Record
	var block []string
	inblock := false
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	lineno := 0
	closeBlock := func() error {
		rec, err := ParseBlock(block, len(records))
		if err != nil {
			return res2desc.Decorate(err, res2desc.ErrParse, fmt.Sprintf("ParseStream: block %d ending at line %d", len(records), lineno))
		}
		records = append(records, rec)
		block = block[:0]
		return nil
	}
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isHeader(line) {
			if inblock {
				if err := closeBlock(); err != nil {
					return nil, err
				}
			}
			inblock = true
		}
		if inblock {
			block = append(block, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, res2desc.WrapError(res2desc.ErrParse, err, fmt.Sprintf("reading line %d", lineno+1), "ParseStream")
	}
	if err := closeBlock(); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseBlock parses the lines of a single RES block. The lines are expected
// to be trimmed. index is stored in the resulting Structure.
// The only error returned is a malformed header; a CELL line without exactly
// 8 tokens leaves the structure without lattice, and atom lines that do not
// fit the expected pattern are skipped.
func ParseBlock(lines []string, index int) (res2desc.Record, error) {
	rec := res2desc.Record{Structure: &res2desc.Structure{Index: index}}
	S := rec.Structure
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if i == 0 && isHeader(line) {
			meta, err := parseHeader(line)
			if err != nil {
				return res2desc.Record{}, err
			}
			rec.Meta = meta
			continue
		}
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch tokens[0] {
		case Lattice:
			S.Lattice = parseLattice(tokens)
		case Species:
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == End {
					break
				}
				symbol, coord, ok := parseAtom(lines[j])
				if !ok {
					continue
				}
				S.Species = append(S.Species, symbol)
				S.Coords = append(S.Coords, coord)
			}
			i = j
		}
	}
	return rec, nil
}

//isHeader reports whether TITL is a whole token of line, so "REM SUBTITLE" is not a header.
func isHeader(line string) bool {
	if !strings.Contains(line, Header) {
		return false
	}
	for _, v := range strings.Fields(line) {
		if v == Header {
			return true
		}
	}
	return false
}

//The keyword is not necessarily the first token, but the 11 fields follow it.
func parseHeader(line string) (res2desc.Metadata, error) {
	tokens := strings.Fields(line)
	for k, v := range tokens {
		if v == Header {
			return res2desc.ParseMetadata(tokens[k+1:])
		}
	}
	return res2desc.Metadata{}, res2desc.Errorf(res2desc.ErrParse, "parseHeader", "no %s keyword in %q", Header, line)
}

func parseLattice(tokens []string) []float64 {
	if len(tokens) != 8 {
		return nil
	}
	lat := make([]float64, 6)
	for i, v := range tokens[2:] {
		var err error
		lat[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
	}
	return lat
}

func parseAtom(line string) (string, r3.Vec, bool) {
	m := atomLine.FindStringSubmatch(line)
	if m == nil {
		return "", r3.Vec{}, false
	}
	var xyz [3]float64
	for i := range xyz {
		var err error
		xyz[i], err = strconv.ParseFloat(m[3+i], 64)
		if err != nil {
			return "", r3.Vec{}, false
		}
	}
	return m[1], r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, true
}
