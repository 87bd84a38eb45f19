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
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/shenwei356/wfilter/wfa"
	"github.com/spf13/cobra"
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Align two sequences with WFA",
	Long: `Align two sequences with WFA

The global alignment, the CIGAR and the score are printed.
I in the CIGAR consumes the query only and D consumes the target only.

Diagnostic outputs:
  --plot              DP matrix cells visited by the wavefronts.
                      A cell contains a transition symbol and the score.
  --print-wavefronts  offsets of all wavefronts.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		cfg := opt.Config

		if len(args) != 2 {
			checkError(fmt.Errorf("two sequences needed: <query> <target>"))
		}
		q := bytes.ToUpper([]byte(args[0]))
		t := bytes.ToUpper([]byte(args[1]))

		plot := getFlagBool(cmd, "plot")
		printWaveFronts := getFlagBool(cmd, "print-wavefronts")

		strategy, err := cfg.Strategy()
		checkError(err)
		p := cfg.WFAPenalties()

		algn, err := wfa.New(&p, &wfa.Options{
			Strategy:   strategy,
			MaxScore:   cfg.Runtime.MaxScore,
			SaveMatrix: plot,
		})
		checkError(err)
		checkError(algn.AdaptiveReduction(cfg.AdaptiveOption()))

		outfh := bufio.NewWriter(os.Stdout)
		defer func() {
			outfh.Flush()
			wfa.RecycleAligner(algn)
		}()

		cigar, err := algn.Align(q, t)
		if err != nil {
			outfh.Flush()
			checkError(err)
		}

		Q, A, T := cigar.AlignmentText(&q, &t)
		fmt.Fprintf(outfh, "query   %s\n", *Q)
		fmt.Fprintf(outfh, "        %s\n", *A)
		fmt.Fprintf(outfh, "target  %s\n", *T)
		fmt.Fprintf(outfh, "cigar   %s\n", cigar.CIGAR())
		fmt.Fprintf(outfh, "score: %d (penalties: %s, strategy: %s)\n", cigar.BaseScore, p, strategy)
		if cigar.AlignLen > 0 {
			fmt.Fprintf(outfh, "query: %d-%d, target: %d-%d\n", cigar.QBegin, cigar.QEnd, cigar.TBegin, cigar.TEnd)
			fmt.Fprintf(outfh, "length: %d, matches: %d (%.2f%%), gaps: %d, gap regions: %d\n",
				cigar.AlignLen, cigar.Matches, float64(cigar.Matches)/float64(cigar.AlignLen)*100,
				cigar.Gaps, cigar.GapRegions)
		}
		wfa.RecycleAlignmentText(Q, A, T)
		wfa.RecycleAlignmentResult(cigar)

		if plot {
			fmt.Fprintln(outfh)
			checkError(algn.Plot(q, t, outfh))
		}
		if printWaveFronts {
			fmt.Fprintln(outfh)
			algn.PrintWaveFronts(outfh)
		}
	},
}

func init() {
	RootCmd.AddCommand(alignCmd)

	alignCmd.Flags().BoolP("plot", "", false,
		formatFlagUsage("Print the DP matrix visited by the wavefronts. Only for short sequences."))
	alignCmd.Flags().BoolP("print-wavefronts", "", false,
		formatFlagUsage("Print the offsets of all wavefronts."))

	addAlignFlags(alignCmd)

	alignCmd.SetUsageTemplate(usageTemplate("<query seq> <target seq>"))
}
