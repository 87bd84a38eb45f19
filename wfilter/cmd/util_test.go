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

package cmd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/wfilter/config"
	"github.com/shenwei356/wfilter/wfa"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().IntP("threads", "j", 0, "")
	addAlignFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Penalties.GapOpen = 8 // from a config file

	cmd := newTestCmd(t, "-X", "5", "--adaptive", "--max-dist-diff", "20", "--max-score", "100", "-j", "2")
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, wfa.Penalties{Mismatch: 5, GapOpen: 8, GapExt: 2}, cfg.WFAPenalties())
	assert.Equal(t, &wfa.AdaptiveReductionOption{MinWFLen: 10, MaxDistDiff: 20}, cfg.AdaptiveOption())
	assert.Equal(t, 100, cfg.Runtime.MaxScore)
	assert.Equal(t, 2, cfg.Runtime.Threads)

	// defaults of flags do not override the config
	cfg = config.Default()
	cfg.Penalties.Mismatch = 3
	require.NoError(t, applyFlags(newTestCmd(t), cfg))
	assert.Equal(t, 3, cfg.Penalties.Mismatch)

	cfg = config.Default()
	err := applyFlags(newTestCmd(t, "-M", "1"), cfg)
	assert.True(t, errors.Is(err, wfa.ErrInvalidPenalties))

	cfg = config.Default()
	err = applyFlags(newTestCmd(t, "--penalties-strategy", "shifted", "--match=-1"), cfg)
	require.NoError(t, err)
	strategy, err := cfg.Strategy()
	require.NoError(t, err)
	assert.Equal(t, wfa.ShiftedPenalties, strategy)
}

func TestFilterCmdHelp(t *testing.T) {
	assert.Contains(t, filterCmd.Long, "Strands are not considered in realignment")
	assert.Contains(t, filterCmd.Long, `"-" strand records`)
}
