/*
 * format.go, part of res2desc.
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

// Package format writes descriptor vectors, each followed by the metadata line
// of its structure, in the layouts cryan itself uses.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/res2desc/res2desc"
)

// Precision is the number of significant digits written for each component.
const Precision = 6

// Value formats one vector component.
func Value(v float64) string {
	return strconv.FormatFloat(v, 'g', Precision, 64)
}

func joinValues(vals []float64) string {
	s := make([]string, len(vals))
	for i, v := range vals {
		s[i] = Value(v)
	}
	return strings.Join(s, " ")
}

func checkLengths(lines []string, vecs []res2desc.Vector, caller string) error {
	if len(lines) != len(vecs) {
		return res2desc.Errorf(res2desc.ErrMismatch, caller, "%d metadata lines for %d vectors", len(lines), len(vecs))
	}
	return nil
}

// Write writes, for every structure, its vector followed by a tab and a newline,
// then its metadata line. In three-line style the vector line is preceded by a line
// with the number of components; the count gets its own line, so the output keeps
// the stride of cryan's three-line style. A newline is added to metadata lines lacking one.
// lines[i] must belong to the structure vecs[i] was computed from.
func Write(w io.Writer, lines []string, vecs []res2desc.Vector, style res2desc.Style) error {
	if err := checkLengths(lines, vecs, "format.Write"); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	for i, v := range vecs {
		if style == res2desc.ThreeLine {
			fmt.Fprintf(b, "%d\n", v.Len())
		}
		b.WriteString(joinValues(v.Values))
		b.WriteString("\t\n")
		b.WriteString(lines[i])
		if !strings.HasSuffix(lines[i], "\n") {
			b.WriteByte('\n')
		}
	}
	if err := b.Flush(); err != nil {
		return res2desc.WrapError(res2desc.ErrIO, err, "writing descriptors", "format.Write")
	}
	return nil
}

// WriteTable writes a "<structures> <dimension>" line, then one vector per line,
// then all the metadata lines.
func WriteTable(w io.Writer, lines []string, vecs []res2desc.Vector) error {
	if err := checkLengths(lines, vecs, "format.WriteTable"); err != nil {
		return err
	}
	dim := 0
	if len(vecs) > 0 {
		dim = vecs[0].Len()
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%d %d\n", len(vecs), dim)
	for _, v := range vecs {
		b.WriteString(joinValues(v.Values))
		b.WriteByte('\n')
	}
	for _, l := range lines {
		b.WriteString(l)
		if !strings.HasSuffix(l, "\n") {
			b.WriteByte('\n')
		}
	}
	if err := b.Flush(); err != nil {
		return res2desc.WrapError(res2desc.ErrIO, err, "writing descriptor table", "format.WriteTable")
	}
	return nil
}

// MetadataLine builds a 7-field line in the format cryan prints: label, pressure,
// volume per atom, enthalpy per atom, number of atoms, formula and the symmetry
// label in double quotes. It is used when cryan is not run. Empty fields are
// written as "-" so the line always has 7 fields.
func MetadataLine(meta res2desc.Metadata, S *res2desc.Structure) string {
	n := meta.NAtoms
	if n <= 0 {
		n = S.Len()
	}
	vol, enth := meta.Volume, meta.Enthalpy
	if n > 0 {
		vol /= float64(n)
		enth /= float64(n)
	}
	label := meta.Label
	if label == "" {
		label = "-"
	}
	formula := Formula(S)
	if formula == "" {
		formula = "-"
	}
	return fmt.Sprintf("%s\t%.2f\t%.3f\t%.3f\t%d\t%s\t%s", label, meta.Pressure, vol, enth, n, formula, quoteSymmetry(meta.Symmetry))
}

// MetadataLines calls MetadataLine for every record.
func MetadataLines(records []res2desc.Record) []string {
	ret := make([]string, len(records))
	for i, r := range records {
		ret[i] = MetadataLine(r.Meta, r.Structure)
	}
	return ret
}

// quoteSymmetry turns "(P1)" into "\"P1\"".
func quoteSymmetry(sym string) string {
	sym = strings.NewReplacer("(", "", ")", "").Replace(sym)
	return `"` + sym + `"`
}

// Formula returns the empirical formula of S, elements in order of first
// appearance and counts divided by their greatest common divisor. Counts of 1 are omitted.
func Formula(S *res2desc.Structure) string {
	symbols, counts := S.Composition()
	g := 0
	for _, c := range counts {
		g = gcd(g, c)
	}
	var b strings.Builder
	for i, s := range symbols {
		b.WriteString(s)
		if c := counts[i] / g; c != 1 {
			b.WriteString(strconv.Itoa(c))
		}
	}
	return b.String()
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
