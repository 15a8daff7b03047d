package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"apodsaver/pkg/ui"
	"apodsaver/pkg/ui/menu"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apodsaver",
	Short: "Download and archive NASA's Astronomy Picture of the Day",
	Long: `apodsaver fetches NASA's Astronomy Picture of the Day, saves each
picture to a local image directory and records its metadata in a JSON
store keyed by date. Days that were already fetched are skipped, so
the tool can be run repeatedly to grow an archive.

Fetch modes:
  - a single day
  - an inclusive range of days
  - a number of randomly chosen days
  - every day since the last saved one

Run without a subcommand to pick a mode interactively.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			ui.PrintLogo()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.apodsaver.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	// Version template
	rootCmd.SetVersionTemplate(`apodsaver {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// runInteractive shows the fetch-mode menu and runs the chosen fetch.
func runInteractive() error {
	choice, err := menu.Run()
	if err != nil {
		return err
	}
	if choice.Aborted {
		return nil
	}

	f, err := buildFetcher()
	if err != nil {
		return err
	}

	switch choice.Mode {
	case menu.ModeSingleDay:
		return reportResult(f.FetchDate(choice.Date))
	case menu.ModeRangeDays:
		return reportResult(f.FetchRange(choice.Start, choice.End))
	case menu.ModeRandomDays:
		return reportResult(f.FetchRandom(choice.Count))
	case menu.ModeFromLastDay:
		return reportResult(f.FetchSinceLast())
	}
	return nil
}
