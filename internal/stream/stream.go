/*
 * stream.go, part of res2desc.
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

// Package stream opens input and output files by name. "-" is the standard
// input or output, and names ending in .zst or .gz are (de)compressed on the fly.
package stream

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/res2desc/res2desc"
)

// Std is the name for the standard input or output.
const Std = "-"

type readCloser struct {
	io.Reader
	closers []io.Closer //closed in order
}

func (r *readCloser) Close() error {
	return closeAll(r.closers)
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	return closeAll(w.closers)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func compression(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Open opens name for reading. Closing the result closes the file,
// but never the standard input.
func Open(name string) (io.ReadCloser, error) {
	if name == Std {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, res2desc.WrapError(res2desc.ErrIO, err, "", "stream.Open")
	}
	switch compression(name) {
	case ".zst":
		d, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, res2desc.WrapError(res2desc.ErrIO, err, name, "stream.Open")
		}
		rc := d.IOReadCloser()
		return &readCloser{Reader: rc, closers: []io.Closer{rc, f}}, nil
	case ".gz":
		g, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, res2desc.WrapError(res2desc.ErrIO, err, name, "stream.Open")
		}
		return &readCloser{Reader: g, closers: []io.Closer{g, f}}, nil
	}
	return f, nil
}

// Create creates or truncates name for writing. Closing the result flushes
// any compressor and closes the file, but never the standard output.
func Create(name string) (io.WriteCloser, error) {
	if name == Std {
		return &writeCloser{Writer: os.Stdout}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, res2desc.WrapError(res2desc.ErrIO, err, "", "stream.Create")
	}
	switch compression(name) {
	case ".zst":
		e, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			f.Close()
			return nil, res2desc.WrapError(res2desc.ErrIO, err, name, "stream.Create")
		}
		return &writeCloser{Writer: e, closers: []io.Closer{e, f}}, nil
	case ".gz":
		g := gzip.NewWriter(f)
		return &writeCloser{Writer: g, closers: []io.Closer{g, f}}, nil
	}
	return f, nil
}

// Concat opens all the names and returns a reader that reads them one after the
// other, with a newline between files. With no names it reads the standard input.
func Concat(names []string) (io.ReadCloser, error) {
	if len(names) == 0 {
		return Open(Std)
	}
	var readers []io.Reader
	var closers []io.Closer
	for i, n := range names {
		r, err := Open(n)
		if err != nil {
			closeAll(closers)
			return nil, res2desc.Decorate(err, res2desc.ErrIO, "stream.Concat")
		}
		if i > 0 {
			readers = append(readers, strings.NewReader("\n"))
		}
		readers = append(readers, r)
		closers = append(closers, r)
	}
	return &readCloser{Reader: io.MultiReader(readers...), closers: closers}, nil
}
