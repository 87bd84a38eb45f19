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

package wfa

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// ErrNoMatrix means the DP matrix was not saved, see Options.SaveMatrix.
var ErrNoMatrix = errors.New("wfa: DP matrix not saved")

// saveCell records the lowest score reaching the cell (v, h) and the transition type.
func (algn *Aligner) saveCell(v, h, s int, _type uint32) {
	m := *algn.matrix
	if v < 0 || v >= len(m) || h < 0 || h >= len(*m[v]) {
		return
	}
	if (*m[v])[h] >= 0 { // recorded with a lower score.
		return
	}
	(*m[v])[h] = int32(s)<<wfaTypeBits | int32(_type)
}

// MatrixCell returns the lowest score reaching the cell (v, h) in the last alignment,
// and the type of the transition, e.g., "Mat", "Mis", "I.O".
func (algn *Aligner) MatrixCell(v, h int) (int, string, bool) {
	if algn.matrix == nil {
		return 0, "", false
	}
	m := *algn.matrix
	if v < 0 || v >= len(m) || h < 0 || h >= len(*m[v]) || (*m[v])[h] < 0 {
		return 0, "", false
	}
	c := (*m[v])[h]
	return int(c >> int32(wfaTypeBits)), wfaType2str(uint32(c) & wfaTypeMask), true
}

// Plot plots the DP matrix of the last alignment as a text table.
// The aligner should be created with Options.SaveMatrix.
//
// A table cell contains the transition type symbol and the score.
// Symbols:
//
//	⊕    Start
//	⟼    Gap open (consuming the target)
//	🠦    Gap extension (consuming the target)
//	↧    Gap open (consuming the query)
//	🠧    Gap extension (consuming the query)
//	⬂    Mismatch
//	⬊    Match
func (algn *Aligner) Plot(q, t []byte, wtr io.Writer) error {
	if algn.matrix == nil {
		return ErrNoMatrix
	}
	m := *algn.matrix
	if len(m) != len(q)+1 || len(*m[0]) != len(t)+1 {
		return errors.Errorf("wfa: the sequences (%d, %d) do not match the matrix (%d, %d)",
			len(q), len(t), len(m)-1, len(*m[0])-1)
	}

	fmt.Fprintf(wtr, "   \t \t   ")
	for h := range t {
		fmt.Fprintf(wtr, "\t%3d", h+1)
	}
	fmt.Fprintln(wtr)
	fmt.Fprintf(wtr, "   \t \t   ")
	for _, b := range t {
		fmt.Fprintf(wtr, "\t%3c", b)
	}
	fmt.Fprintln(wtr)

	for v, row := range m {
		if v == 0 {
			fmt.Fprintf(wtr, "%3d\t ", v)
		} else {
			fmt.Fprintf(wtr, "%3d\t%c", v, q[v-1]) // a base in seq q
		}
		for _, c := range *row {
			if c < 0 {
				fmt.Fprintf(wtr, "\t  .")
			} else {
				fmt.Fprintf(wtr, "\t%c%2d", wfaArrows[c&int32(wfaTypeMask)], c>>int32(wfaTypeBits))
			}
		}
		fmt.Fprintln(wtr)
	}
	return nil
}

// PrintWaveFronts lists the offsets of all wavefronts of the last alignment.
func (algn *Aligner) PrintWaveFronts(wtr io.Writer) {
	if algn.st != nil {
		algn.st.Print(wtr)
	}
}

var poolMatrix = &sync.Pool{New: func() interface{} {
	tmp := make([]*[]int32, 0, 128)
	return &tmp
}}

var poolRow = &sync.Pool{New: func() interface{} {
	tmp := make([]int32, 0, 128)
	return &tmp
}}

func newMatrix(rows, cols int) *[]*[]int32 {
	m := poolMatrix.Get().(*[]*[]int32)
	for i := 0; i < rows; i++ {
		r := poolRow.Get().(*[]int32)
		for j := 0; j < cols; j++ {
			*r = append(*r, -1)
		}
		*m = append(*m, r)
	}
	return m
}

func recycleMatrix(m *[]*[]int32) {
	for _, r := range *m {
		if r != nil {
			*r = (*r)[:0]
			poolRow.Put(r)
		}
	}
	*m = (*m)[:0]
	poolMatrix.Put(m)
}
