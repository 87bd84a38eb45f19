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

// Package paf parses PAF (Pairwise mApping Format) records.
//
// PAF is TAB-delimited with each line consisting of the following predefined fields:
//
//	|Col|Type   |Description                               |
//	|--:|:-----:|:-----------------------------------------|
//	|1  |string |Query sequence name                       |
//	|2  |int    |Query sequence length                     |
//	|3  |int    |Query start (0-based; BED-like; closed)   |
//	|4  |int    |Query end (0-based; BED-like; open)       |
//	|5  |char   |Relative strand: "+" or "-"               |
//	|6  |string |Target sequence name                      |
//	|7  |int    |Target sequence length                    |
//	|8  |int    |Target start on original strand (0-based) |
//	|9  |int    |Target end on original strand (0-based)   |
//	|10 |int    |Number of residue matches                 |
//	|11 |int    |Alignment block length                    |
//	|12 |int    |Mapping quality (0-255; 255 for missing)  |
//
// SAM-like typed key-value pairs might follow, the CIGAR is stored in "cg:Z:".
// See https://github.com/lh3/miniasm/blob/master/PAF.md
package paf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Strand is the relative strand.
type Strand byte

const (
	Forward Strand = '+'
	Reverse Strand = '-'
)

func (s Strand) String() string { return string(s) }

// SeqType is the role of a sequence in a record.
type SeqType int

const (
	Query SeqType = iota
	Target
)

func (t SeqType) String() string {
	if t == Query {
		return "query"
	}
	return "target"
}

var (
	ErrTooFewColumns = errors.New("paf: too few columns")
	ErrInvalidField  = errors.New("paf: invalid field")
	ErrInvalidStrand = errors.New("paf: invalid strand")
)

// NumColumns is the number of mandatory columns.
const NumColumns = 12

// Record is one line of a PAF file.
type Record struct {
	Index int // 0-based index among records
	Line  int // 1-based line number in the file

	Query      string
	QueryLen   int
	QueryStart int
	QueryEnd   int

	Strand Strand

	Target      string
	TargetLen   int
	TargetStart int
	TargetEnd   int

	Matches  int
	BlockLen int
	MapQ     int

	Tags  []string // optional fields
	CIGAR string   // from cg:Z:, might be empty

	Raw string // the original line
}

// ParseLine parses one PAF line.
func ParseLine(line string) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	items := strings.Split(line, "\t")
	if len(items) < NumColumns {
		return nil, errors.Wrapf(ErrTooFewColumns, "%d < %d", len(items), NumColumns)
	}

	r := &Record{Raw: line}
	r.Query = items[0]
	r.Target = items[5]

	ints := []struct {
		col int
		v   *int
	}{
		{1, &r.QueryLen}, {2, &r.QueryStart}, {3, &r.QueryEnd},
		{6, &r.TargetLen}, {7, &r.TargetStart}, {8, &r.TargetEnd},
		{9, &r.Matches}, {10, &r.BlockLen}, {11, &r.MapQ},
	}
	var err error
	for _, f := range ints {
		*f.v, err = strconv.Atoi(items[f.col])
		if err != nil || *f.v < 0 {
			return nil, errors.Wrapf(ErrInvalidField, "column %d: %q", f.col+1, items[f.col])
		}
	}

	switch items[4] {
	case "+":
		r.Strand = Forward
	case "-":
		r.Strand = Reverse
	default:
		return nil, errors.Wrapf(ErrInvalidStrand, "%q", items[4])
	}

	if r.QueryStart > r.QueryEnd || r.QueryEnd > r.QueryLen {
		return nil, errors.Wrapf(ErrInvalidField, "query range [%d, %d) out of length %d",
			r.QueryStart, r.QueryEnd, r.QueryLen)
	}
	if r.TargetStart > r.TargetEnd || r.TargetEnd > r.TargetLen {
		return nil, errors.Wrapf(ErrInvalidField, "target range [%d, %d) out of length %d",
			r.TargetStart, r.TargetEnd, r.TargetLen)
	}

	if len(items) > NumColumns {
		r.Tags = items[NumColumns:]
		r.CIGAR, _ = r.Tag("cg")
	}

	return r, nil
}

// Tag returns the value of an optional field, e.g., "cg" for "cg:Z:10M".
func (r *Record) Tag(name string) (string, bool) {
	for _, tag := range r.Tags {
		// TAG:TYPE:VALUE
		if len(tag) >= len(name)+3 && tag[:len(name)] == name && tag[len(name)] == ':' && tag[len(name)+2] == ':' {
			return tag[len(name)+3:], true
		}
	}
	return "", false
}

// Location returns the name, start and end of the query or target.
func (r *Record) Location(seqType SeqType) (string, int, int) {
	if seqType == Query {
		return r.Query, r.QueryStart, r.QueryEnd
	}
	return r.Target, r.TargetStart, r.TargetEnd
}

func (r *Record) String() string {
	if r.Raw != "" {
		return r.Raw
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\t%d\t%d\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d",
		r.Query, r.QueryLen, r.QueryStart, r.QueryEnd, r.Strand,
		r.Target, r.TargetLen, r.TargetStart, r.TargetEnd,
		r.Matches, r.BlockLen, r.MapQ)
	for _, tag := range r.Tags {
		b.WriteByte('\t')
		b.WriteString(tag)
	}
	return b.String()
}
