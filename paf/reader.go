// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package paf

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// BufferSize is the maximum line length the reader accepts.
// Lines of long alignments with CIGARs could be very long.
var BufferSize = 64 << 20

// Reader reads PAF records from a plain or compressed file.
// Empty lines and lines starting with "#" are skipped.
type Reader struct {
	fh      *xopen.Reader
	scanner *bufio.Scanner

	line  int
	index int
	rec   *Record
	err   error
}

// NewReader opens a PAF file, "-" for stdin.
func NewReader(file string) (*Reader, error) {
	fh, err := xopen.Ropen(file)
	if err != nil {
		return nil, errors.Wrapf(err, "open PAF file: %s", file)
	}
	return newReader(fh, fh), nil
}

// NewReaderFromIO reads records from an io.Reader.
func NewReaderFromIO(r io.Reader) *Reader {
	return newReader(nil, r)
}

func newReader(fh *xopen.Reader, r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), BufferSize)
	return &Reader{fh: fh, scanner: scanner}
}

// Next reads the next record, it returns false at the end or on error.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}

	var line string
	for r.scanner.Scan() {
		r.line++
		line = strings.TrimRight(r.scanner.Text(), "\r\n")
		if line == "" || line[0] == '#' {
			continue
		}

		rec, err := ParseLine(line)
		if err != nil {
			r.err = errors.Wrapf(err, "line %d", r.line)
			return false
		}
		rec.Line = r.line
		rec.Index = r.index
		r.index++
		r.rec = rec
		return true
	}
	r.err = r.scanner.Err()
	return false
}

// Record returns the current record.
func (r *Reader) Record() *Record { return r.rec }

// Err returns the first error.
func (r *Reader) Err() error { return r.err }

// Close closes the file.
func (r *Reader) Close() error {
	if r.fh != nil {
		return r.fh.Close()
	}
	return nil
}

// ReadAll reads all records of a PAF file.
func ReadAll(file string) ([]*Record, error) {
	r, err := NewReader(file)
	if err != nil {
		return nil, err
	}

	records := make([]*Record, 0, 1024)
	for r.Next() {
		records = append(records, r.Record())
	}
	if err = r.Err(); err != nil {
		r.Close()
		return nil, err
	}
	return records, r.Close()
}
