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
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shenwei356/wfilter/filter"
	"github.com/shenwei356/wfilter/index"
	"github.com/shenwei356/wfilter/paf"
	"github.com/shenwei356/xopen"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter PAF records by realigning sequence pairs",
	Long: `Filter PAF records by realigning sequence pairs

Steps:
  1. Match intervals of PAF records (M and = in the cg:Z: CIGAR) are
     indexed on queries and targets. Records without CIGARs are skipped.
  2. Every target-query pair is aligned globally with WFA. With the flag
     --paf-pairs-only, only pairs appearing in the PAF file are aligned.
  3. Records with match intervals overlapping the exact matches of the
     new alignments, on either the query or the target, are kept.

Attention:
  1. Pairs exceeding the score cap (--max-score) are skipped with a warning.
  2. Sequence IDs in the FASTA files should match the names in the PAF file.
  3. Strands are not considered in realignment. Queries are always aligned
     in the forward strand, while match intervals of "-" strand records are
     mapped with query coordinates running backward.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)
		cfg := opt.Config

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}

		outputLog := opt.Verbose || opt.Log2File

		timeStart := time.Now()
		defer func() {
			if outputLog {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		// ---------------------------------------------------------------
		// input

		pafFile := getFlagString(cmd, "paf")
		if pafFile == "" {
			checkError(fmt.Errorf("flag -p/--paf needed"))
		}
		targetFile := getFlagString(cmd, "target")
		if targetFile == "" {
			checkError(fmt.Errorf("flag -t/--target needed"))
		}
		queryFile := getFlagString(cmd, "query")
		if queryFile == "" {
			checkError(fmt.Errorf("flag -q/--query needed"))
		}
		if isStdin(pafFile) && (isStdin(targetFile) || isStdin(queryFile)) ||
			isStdin(targetFile) && isStdin(queryFile) {
			checkError(fmt.Errorf("only one input file could be stdin"))
		}
		outFile := getFlagString(cmd, "out-file")
		pafPairsOnly := getFlagBool(cmd, "paf-pairs-only")
		lineNumbers := getFlagBool(cmd, "line-numbers")

		strategy, err := cfg.Strategy()
		checkError(err)

		if outputLog {
			log.Infof("wfilter v%s", VERSION)
			log.Info()
			log.Infof("penalties: %s, strategy: %s", cfg.WFAPenalties(), strategy)
			if ad := cfg.AdaptiveOption(); ad != nil {
				log.Infof("adaptive reduction: min wavefront length: %d, max distance difference: %d",
					ad.MinWFLen, ad.MaxDistDiff)
			}
			log.Infof("threads: %d", opt.NumCPUs)
			log.Info()
		}

		// ---------------------------------------------------------------
		// PAF

		if outputLog {
			log.Infof("reading PAF file: %s", pafFile)
		}
		records, err := paf.ReadAll(pafFile)
		checkError(err)

		qIdx, tIdx, stats, err := index.FromPAF(records)
		checkError(err)
		if outputLog {
			log.Infof("  %s records, %s without CIGAR", humanize.Comma(int64(stats.Records)), humanize.Comma(int64(stats.NoCIGAR)))
			log.Infof("  %s match intervals on %d queries, %s on %d targets",
				humanize.Comma(int64(stats.QueryIvs)), qIdx.NumSeqs(),
				humanize.Comma(int64(stats.TargetIvs)), tIdx.NumSeqs())
		}

		// ---------------------------------------------------------------
		// sequences

		targets, err := filter.LoadSequences(targetFile)
		checkError(err)
		queries, err := filter.LoadSequences(queryFile)
		checkError(err)
		if outputLog {
			log.Infof("%d target sequences, %d query sequences", len(targets), len(queries))
		}

		var pairs filter.PairSet
		var nPairs int
		if pafPairsOnly {
			pairs = filter.PairsFromPAF(records)
			for _, t := range targets {
				for _, q := range queries {
					if pairs.Has(t.ID, q.ID) {
						nPairs++
					}
				}
			}
		} else {
			nPairs = len(targets) * len(queries)
		}
		if outputLog {
			log.Infof("aligning %s sequence pairs ...", humanize.Comma(int64(nPairs)))
		}

		// ---------------------------------------------------------------
		// process bar

		var pbs *mpb.Progress
		var bar *mpb.Bar
		var chDuration chan time.Duration
		var doneDuration chan int
		if opt.Verbose && nPairs > 0 {
			pbs = mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
			bar = pbs.AddBar(int64(nPairs),
				mpb.PrependDecorators(
					decor.Name("aligned pairs: ", decor.WC{W: len("aligned pairs: "), C: decor.DindentRight}),
					decor.Name("", decor.WCSyncSpaceR),
					decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
				),
				mpb.AppendDecorators(
					decor.Name("ETA: ", decor.WC{W: len("ETA: ")}),
					decor.EwmaETA(decor.ET_STYLE_GO, 20),
					decor.OnComplete(decor.Name(""), ". done"),
				),
			)

			chDuration = make(chan time.Duration, opt.NumCPUs)
			doneDuration = make(chan int)
			go func() {
				for t := range chDuration {
					bar.EwmaIncrBy(1, t)
				}
				doneDuration <- 1
			}()
		}

		// ---------------------------------------------------------------
		// filter

		f := &filter.Filter{
			Penalties: cfg.WFAPenalties(),
			Strategy:  strategy,
			Reduction: cfg.AdaptiveOption(),
			MaxScore:  cfg.Runtime.MaxScore,
			Threads:   opt.NumCPUs,
			Pairs:     pairs,
		}
		if outputLog {
			f.Log = log
		}
		threadsFloat := float64(opt.NumCPUs)
		if chDuration != nil {
			f.OnPair = func(pr *filter.PairResult) {
				chDuration <- time.Duration(float64(pr.Elapsed) / threadsFloat)
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := f.Run(ctx, targets, queries, qIdx, tIdx)

		if chDuration != nil {
			close(chDuration)
			<-doneDuration
			if err != nil {
				bar.Abort(false)
			}
			pbs.Wait()
		}
		checkError(err)

		kept := result.Kept()
		if outputLog {
			log.Infof("%s pairs aligned, %s abandoned", humanize.Comma(int64(result.Pairs)), humanize.Comma(int64(result.Abandoned)))
			log.Infof("%s records hit on queries, %s on targets",
				humanize.Comma(int64(len(result.QueryHits))), humanize.Comma(int64(len(result.TargetHits))))
			log.Infof("%s of %s records kept", humanize.Comma(int64(len(kept))), humanize.Comma(int64(len(records))))
		}

		// ---------------------------------------------------------------
		// output

		outfh, err := xopen.Wopen(outFile)
		checkError(err)
		w := bufio.NewWriter(outfh)
		for _, i := range kept {
			if lineNumbers {
				w.WriteString(strconv.Itoa(records[i].Line))
			} else {
				w.WriteString(records[i].String())
			}
			w.WriteByte('\n')
		}
		checkError(w.Flush())
		checkError(outfh.Close())

		if outputLog {
			log.Infof("kept records saved to: %s", outFile)
		}
	},
}

func init() {
	RootCmd.AddCommand(filterCmd)

	filterCmd.Flags().StringP("paf", "p", "",
		formatFlagUsage(`Input PAF file with CIGARs in the cg:Z: tag, could be compressed. "-" for stdin.`))
	filterCmd.Flags().StringP("target", "t", "",
		formatFlagUsage(`FASTA/Q file of target sequences, could be compressed.`))
	filterCmd.Flags().StringP("query", "q", "",
		formatFlagUsage(`FASTA/Q file of query sequences, could be compressed.`))
	filterCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file for kept PAF records, supports .gz, .xz, .zst and .bz2 suffixes. "-" for stdout.`))

	filterCmd.Flags().BoolP("paf-pairs-only", "", false,
		formatFlagUsage(`Only align target-query pairs appearing in the PAF file.`))
	filterCmd.Flags().BoolP("line-numbers", "", false,
		formatFlagUsage(`Output 1-based line numbers of kept records instead of the records.`))

	addAlignFlags(filterCmd)

	filterCmd.SetUsageTemplate(usageTemplate("-p <in.paf> -t <target.fa> -q <query.fa> [-o out.paf.gz]"))
}
