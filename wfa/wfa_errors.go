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

	"github.com/pkg/errors"
)

// ErrAbandoned means the score exceeded the cap before reaching the end cell.
// Callers aligning many pairs may skip the pair and continue.
var ErrAbandoned = errors.New("wfa: alignment abandoned")

// InternalError is returned when the backtrace finds no valid predecessor,
// which means the wavefronts are inconsistent.
type InternalError struct {
	Score  int
	K      int
	Offset int32
	State  string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("wfa: internal error: no valid predecessor at score %d, k %d, offset %d, state %s",
		e.Score, e.K, e.Offset, e.State)
}
