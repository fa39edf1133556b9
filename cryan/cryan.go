/*
 * cryan.go, part of res2desc.
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

/*Package cryan runs the cryan ranking tool (part of AIRSS) on a stream of RES blocks and
extracts, for each structure, the metadata line cryan prints for it.

cryan has printed its results in two ways over time: two lines per structure, or three.
In both, the metadata line is the last one of each group and has 7 fields. Adapt tries
the style it is told first and the other one after that; if neither gives 7-field lines
the output is rejected. The fallback works both ways: a three-line hint falls back to
two-line as well, not only two-line to three-line.

The input is read once into a Buffer, which is fed to cryan and then parsed again by
the res package. The Buffer is rewound after each of those reads.
*/
package cryan

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/res2desc/res2desc"
	"github.com/res2desc/res2desc/res"
	"go.uber.org/zap"
)

// MetadataFields is the number of fields in a cryan metadata line.
const MetadataFields = 7

// Buffer holds the whole input in memory so it can be read more than once.
// It is not safe for concurrent use.
type Buffer struct {
	r *bytes.Reader
}

// NewBuffer reads r until EOF and returns a Buffer with its contents.
func NewBuffer(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, res2desc.WrapError(res2desc.ErrIO, err, "reading input", "cryan.NewBuffer")
	}
	return &Buffer{r: bytes.NewReader(data)}, nil
}

// BufferString returns a Buffer with the contents of s.
func BufferString(s string) *Buffer {
	return &Buffer{r: bytes.NewReader([]byte(s))}
}

func (B *Buffer) Read(p []byte) (int, error) {
	return B.r.Read(p)
}

// Rewind sets the reading position back to the start.
func (B *Buffer) Rewind() {
	//a bytes.Reader only fails to seek to a negative position
	_, _ = B.r.Seek(0, io.SeekStart)
}

// Size returns the total size of the contents, regardless of the reading position.
func (B *Buffer) Size() int64 {
	return B.r.Size()
}

// Handle runs cryan.
type Handle struct {
	command string
	args    []string
	dir     string
	logger  *zap.Logger
}

// NewHandle returns a Handle with the default settings.
func NewHandle() *Handle {
	H := new(Handle)
	H.SetDefaults()
	return H
}

// SetDefaults sets the command to "ca -r", the usual way cryan is called
// from AIRSS, in the current directory.
func (H *Handle) SetDefaults() {
	H.command = "ca"
	H.args = []string{"-r"}
	H.dir = ""
	H.logger = zap.NewNop()
}

func (H *Handle) Command() string {
	return H.command
}

func (H *Handle) SetCommand(name string) {
	H.command = name
}

// SetArgs sets the arguments cryan is called with.
func (H *Handle) SetArgs(args []string) {
	H.args = append([]string(nil), args...)
}

func (H *Handle) Args() []string {
	return append([]string(nil), H.args...)
}

// SetDir sets the working directory for cryan. Empty means the current one.
func (H *Handle) SetDir(dir string) {
	H.dir = dir
}

func (H *Handle) SetLogger(l *zap.Logger) {
	H.logger = l
}

// Run feeds stdin to cryan and returns everything it wrote to its standard output.
// It waits for cryan to exit. Cancelling ctx kills it.
func (H *Handle) Run(ctx context.Context, stdin io.Reader) (string, error) {
	cmd := exec.CommandContext(ctx, H.command, H.args...)
	cmd.Dir = H.dir
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	H.logger.Debug("running cryan", zap.String("command", H.command), zap.Strings("args", H.args))
	if err := cmd.Run(); err != nil {
		msg := fmt.Sprintf("running %s %s", H.command, strings.Join(H.args, " "))
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += " (" + s + ")"
		}
		return "", res2desc.WrapError(res2desc.ErrAdapterProtocol, err, msg, "Handle.Run")
	}
	return stdout.String(), nil
}

// SelectLines returns the metadata lines of output, assuming the given style:
// every second line starting with the second one, or every third line starting
// with the third one. The lines are returned without their terminators.
func SelectLines(output string, style res2desc.Style) []string {
	output = strings.TrimSuffix(output, "\n")
	if output == "" {
		return nil
	}
	all := strings.Split(output, "\n")
	var ret []string
	for i := style.Offset(); i < len(all); i += style.Stride() {
		ret = append(ret, strings.TrimSuffix(all[i], "\r"))
	}
	return ret
}

// wellFormed returns true if there is at least one line and all the lines have 7 fields.
func wellFormed(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, v := range lines {
		if len(strings.Fields(v)) != MetadataFields {
			return false
		}
	}
	return true
}

// Detect selects the metadata lines of output, trying the hint style first
// and the other style after it. It returns the lines and the style that worked.
func Detect(output string, hint res2desc.Style) ([]string, res2desc.Style, error) {
	for _, style := range []res2desc.Style{hint, hint.Other()} {
		lines := SelectLines(output, style)
		if wellFormed(lines) {
			return lines, style, nil
		}
	}
	return nil, hint, res2desc.Errorf(res2desc.ErrAdapterProtocol, "cryan.Detect",
		"no %d-field lines in either %s or %s style", MetadataFields, hint, hint.Other())
}

// Result is what Adapt returns. Lines[i] and Records[i] belong to the same structure.
type Result struct {
	Input   *Buffer
	Lines   []string
	Records []res2desc.Record
	Style   res2desc.Style
}

// Adapt runs cryan on the contents of input, selects the metadata lines in its output
// and parses input into records. The number of lines must match the number of records.
// input is left rewound.
func Adapt(ctx context.Context, H *Handle, input *Buffer, hint res2desc.Style) (*Result, error) {
	input.Rewind()
	out, err := H.Run(ctx, input)
	input.Rewind()
	if err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrAdapterProtocol, "cryan.Adapt")
	}
	lines, style, err := Detect(out, hint)
	if err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrAdapterProtocol, "cryan.Adapt")
	}
	if style != hint {
		H.logger.Info("cryan output style differs from the expected one", zap.Stringer("expected", hint), zap.Stringer("detected", style))
	}
	records, err := res.ParseStream(input)
	input.Rewind()
	if err != nil {
		return nil, res2desc.Decorate(err, res2desc.ErrParse, "cryan.Adapt")
	}
	if len(lines) != len(records) {
		return nil, res2desc.Errorf(res2desc.ErrAdapterProtocol, "cryan.Adapt",
			"cryan returned %d metadata lines for %d structures", len(lines), len(records))
	}
	H.logger.Debug("cryan output adapted", zap.Stringer("style", style), zap.Int("structures", len(records)))
	return &Result{Input: input, Lines: lines, Records: records, Style: style}, nil
}
