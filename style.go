/*
 * style.go, part of res2desc.
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

import "fmt"

// Style is the number of lines of cryan text that belong to one structure.
// The metadata line is always the last of them.
type Style int

const (
	TwoLine Style = iota
	ThreeLine
)

// Stride returns the number of lines per structure.
func (S Style) Stride() int {
	if S == ThreeLine {
		return 3
	}
	return 2
}

// Offset returns the position of the metadata line within the lines of a structure.
func (S Style) Offset() int {
	return S.Stride() - 1
}

// Other returns the style that is not S.
func (S Style) Other() Style {
	if S == ThreeLine {
		return TwoLine
	}
	return ThreeLine
}

func (S Style) String() string {
	switch S {
	case TwoLine:
		return "two-line"
	case ThreeLine:
		return "three-line"
	}
	return fmt.Sprintf("Style(%d)", int(S))
}

// ParseStyle accepts "two-line"/"three-line" and the short forms "2"/"3", "two"/"three".
func ParseStyle(s string) (Style, error) {
	switch s {
	case "two-line", "two", "2":
		return TwoLine, nil
	case "three-line", "three", "3":
		return ThreeLine, nil
	}
	return TwoLine, Errorf(ErrConfig, "ParseStyle", "unknown style %q", s)
}
