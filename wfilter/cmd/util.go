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
	"fmt"
	"os"
	"runtime"

	"github.com/shenwei356/wfilter/config"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"
)

// Options contains the global flags and the configuration.
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	Config *config.Config
}

func getOptions(cmd *cobra.Command) *Options {
	cfg, err := config.Load(getFlagString(cmd, "config"))
	checkError(err)
	checkError(applyFlags(cmd, cfg))

	threads := cfg.Runtime.Threads
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		Config: cfg,
	}
}

// addAlignFlags adds flags of alignment parameters.
func addAlignFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("mismatch", "X", 4,
		formatFlagUsage("Mismatch penalty."))
	cmd.Flags().IntP("match", "M", 0,
		formatFlagUsage("Match score, zero or negative."))
	cmd.Flags().IntP("gap-open", "O", 6,
		formatFlagUsage("Gap opening penalty."))
	cmd.Flags().IntP("gap-ext", "E", 2,
		formatFlagUsage("Gap extension penalty."))
	cmd.Flags().StringP("penalties-strategy", "", "match-zero",
		formatFlagUsage(`Strategy for a negative match score. Available values: match-zero, force-zero-match, shifted, odd-pair.`))

	cmd.Flags().BoolP("adaptive", "a", false,
		formatFlagUsage("Use adaptive reduction of wavefronts. It's faster but the alignment might not be optimal."))
	cmd.Flags().IntP("min-wf-len", "", 10,
		formatFlagUsage("Minimum wavefront length to trigger the adaptive reduction."))
	cmd.Flags().IntP("max-dist-diff", "", 50,
		formatFlagUsage("Maximum distance difference to the closest diagonal in the adaptive reduction."))

	cmd.Flags().IntP("max-score", "", 0,
		formatFlagUsage("Abandon alignments with scores above this value. 0 for an automatic cap."))
}

// applyFlags overrides the configuration with flags given in the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("threads") {
		cfg.Runtime.Threads = getFlagNonNegativeInt(cmd, "threads")
	}
	if changed("mismatch") {
		cfg.Penalties.Mismatch = getFlagInt(cmd, "mismatch")
	}
	if changed("match") {
		cfg.Penalties.Matches = getFlagInt(cmd, "match")
	}
	if changed("gap-open") {
		cfg.Penalties.GapOpen = getFlagInt(cmd, "gap-open")
	}
	if changed("gap-ext") {
		cfg.Penalties.GapExtend = getFlagInt(cmd, "gap-ext")
	}
	if changed("penalties-strategy") {
		cfg.Penalties.Strategy = getFlagString(cmd, "penalties-strategy")
	}
	if changed("adaptive") {
		cfg.Reduction.Adaptive = getFlagBool(cmd, "adaptive")
	}
	if changed("min-wf-len") {
		cfg.Reduction.MinWavefrontLength = getFlagInt(cmd, "min-wf-len")
	}
	if changed("max-dist-diff") {
		cfg.Reduction.MaxDistanceThreshold = getFlagInt(cmd, "max-dist-diff")
	}
	if changed("max-score") {
		cfg.Runtime.MaxScore = getFlagNonNegativeInt(cmd, "max-score")
	}

	return cfg.Validate()
}

func checkError(err error) {
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func isStdin(file string) bool {
	return file == "-"
}

func getFlagInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	return value
}

func getFlagNonNegativeInt(cmd *cobra.Command, flag string) int {
	value, err := cmd.Flags().GetInt(flag)
	checkError(err)
	if value < 0 {
		checkError(fmt.Errorf("value of flag --%s should be greater than or equal to 0", flag))
	}
	return value
}

func getFlagString(cmd *cobra.Command, flag string) string {
	value, err := cmd.Flags().GetString(flag)
	checkError(err)
	return value
}

func getFlagBool(cmd *cobra.Command, flag string) bool {
	value, err := cmd.Flags().GetBool(flag)
	checkError(err)
	return value
}

func formatFlagUsage(s string) string {
	return "► " + s
}

func usageTemplate(s string) string {
	return fmt.Sprintf(`Usage:{{if .Runnable}}
  {{.UseLine}} %s{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`, s)
}
