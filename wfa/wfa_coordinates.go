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

// Coordinates in the DP matrix:
//
//	v: position in the query (rows)
//	h: position in the target (columns)
//	k: diagonal, k = h - v
//	offset: h
//
// Diagonals range from -len(query) to len(target).

// K returns the diagonal of the cell (v, h).
func K(h, v int) int { return h - v }

// V returns the query position of an offset on diagonal k.
func V(k int, offset int32) int { return int(offset) - k }

// H returns the target position of an offset.
func H(k int, offset int32) int { return int(offset) }

// ShiftedIndex maps a diagonal to a non-negative index,
// central is the index of diagonal 0, i.e., len(query).
func ShiftedIndex(k, central int) int { return k + central }

// UnshiftedDiagonal is the inverse of ShiftedIndex.
func UnshiftedDiagonal(i, central int) int { return i - central }
