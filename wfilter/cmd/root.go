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
	"io"
	"os"
	"runtime"

	colorable "github.com/mattn/go-colorable"
	"github.com/shenwei356/go-logging"
	"github.com/spf13/cobra"
)

// VERSION is the version of wfilter.
const VERSION = "0.1.0"

var log *logging.Logger

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`,
)

var logFormat2 = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{level:.4s}] %{message}`,
)

func stderr() io.Writer {
	if runtime.GOOS == "windows" {
		return colorable.NewColorableStderr()
	}
	return os.Stderr
}

func init() {
	backend := logging.NewLogBackend(stderr(), "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
	log = logging.MustGetLogger("wfilter")
}

// addLog tees the log to a file, the terminal output is kept only in verbose mode.
func addLog(file string, verbose bool) *os.File {
	w, err := os.Create(file)
	checkError(err)

	backendFormatter := logging.NewBackendFormatter(logging.NewLogBackend(stderr(), "", 0), logFormat)
	backendFormatter2 := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat2)
	if verbose {
		logging.SetBackend(backendFormatter, backendFormatter2)
	} else {
		logging.SetBackend(backendFormatter2)
	}
	return w
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "wfilter",
	Short: "Filter PAF records by realigning sequences with WFA",
	Long: fmt.Sprintf(`wfilter: filter PAF records by realigning sequences with WFA

wfilter realigns every target-query sequence pair with the gap-affine
Wavefront Alignment algorithm, and keeps the PAF records whose match
intervals overlap the exact matches of the new alignments.

Version: v%s

Configuration:
  Penalties and other options could be saved in a TOML file,
  which is ~/.wfilter.toml by default. Command line flags
  override values in the file. Run "wfilter config" for an example.

`, VERSION),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(-1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntP("threads", "j", 0,
		formatFlagUsage("Number of CPU cores to use. By default, it uses the value in the config file, or all cores."))
	RootCmd.PersistentFlags().BoolP("quiet", "", false,
		formatFlagUsage("Do not print any verbose information. But you can write them to file with --log."))
	RootCmd.PersistentFlags().StringP("log", "", "",
		formatFlagUsage("Log file."))
	RootCmd.PersistentFlags().StringP("config", "", "",
		formatFlagUsage("Config file in TOML format. The default file ~/.wfilter.toml is used if it exists."))

	RootCmd.CompletionOptions.DisableDefaultCmd = true

	RootCmd.SetUsageTemplate(usageTemplate(""))
}
