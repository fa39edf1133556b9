/*
 * structure.go, part of res2desc.
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

package res2desc

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// MetadataFields is the number of fields following the TITL keyword
// in a well-formed header line.
const MetadataFields = 11

// Structure is one atomic structure, as read from a RES block.
// It is created by the parser and not modified afterwards.
type Structure struct {
	Index   int      //position in the input stream
	Species []string //element symbol per atom, in file order
	Coords  []r3.Vec //one per atom, fractional when Lattice is set
	Lattice []float64
}

// Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Species)
}

// Periodic returns true if the structure has the 6 lattice parameters.
func (S *Structure) Periodic() bool {
	return len(S.Lattice) == 6
}

// Composition returns the symbols in order of first appearance and
// the number of atoms of each.
func (S *Structure) Composition() ([]string, []int) {
	var symbols []string
	var counts []int
	pos := make(map[string]int)
	for _, v := range S.Species {
		i, ok := pos[v]
		if !ok {
			i = len(symbols)
			pos[v] = i
			symbols = append(symbols, v)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return symbols, counts
}

// Metadata holds the attributes in the TITL line of a RES block.
type Metadata struct {
	Label    string
	Pressure float64
	Volume   float64
	Enthalpy float64
	Spin     float64
	SpinAbs  float64
	NAtoms   int
	Symmetry string
	Flags    [3]string //the last one is the number of times the structure was found

	raw []string
}

// ParseMetadata builds a Metadata from the tokens that follow the TITL keyword.
// Tokens beyond the 11th are ignored.
func ParseMetadata(tokens []string) (Metadata, error) {
	var M Metadata
	if len(tokens) < MetadataFields {
		return M, NewError(ErrParse, fmt.Sprintf("header has %d fields, %d expected", len(tokens), MetadataFields), "ParseMetadata")
	}
	t := tokens[:MetadataFields]
	floats := []*float64{&M.Pressure, &M.Volume, &M.Enthalpy, &M.Spin, &M.SpinAbs}
	for i, f := range floats {
		var err error
		*f, err = strconv.ParseFloat(t[i+1], 64)
		if err != nil {
			return Metadata{}, NewError(ErrParse, fmt.Sprintf("field %d (%q) is not a number", i+2, t[i+1]), "ParseMetadata")
		}
	}
	natoms, err := strconv.Atoi(t[6])
	if err != nil {
		return Metadata{}, NewError(ErrParse, fmt.Sprintf("atom count %q is not an integer", t[6]), "ParseMetadata")
	}
	M.Label = t[0]
	M.NAtoms = natoms
	M.Symmetry = t[7]
	copy(M.Flags[:], t[8:])
	M.raw = append([]string(nil), t...)
	return M, nil
}

// Fields returns the header tokens the Metadata was parsed from, or nil
// for a Metadata that did not come from a header line.
func (M Metadata) Fields() []string {
	if M.raw == nil {
		return nil
	}
	return append([]string(nil), M.raw...)
}

// Empty returns true if the Metadata was not read from a header line.
func (M Metadata) Empty() bool {
	return M.raw == nil
}

func (M Metadata) String() string {
	return strings.Join(M.raw, " ")
}

// Record pairs the header and the geometry of one block.
type Record struct {
	Meta      Metadata
	Structure *Structure
}

// Structures returns the Structure of each record, in the same order.
func Structures(records []Record) []*Structure {
	ret := make([]*Structure, len(records))
	for i, v := range records {
		ret[i] = v.Structure
	}
	return ret
}

// Vector is a descriptor vector and the index of the structure it was computed from.
type Vector struct {
	Index  int
	Values []float64
}

// Len returns the dimension of the vector.
func (V Vector) Len() int {
	return len(V.Values)
}
