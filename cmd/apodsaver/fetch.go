package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apodsaver/pkg/apod"
	"apodsaver/pkg/config"
	"apodsaver/pkg/fetcher"
	"apodsaver/pkg/logger"
	"apodsaver/pkg/store"
	"apodsaver/pkg/ui"
)

var (
	// Fetch command flags
	apiKey       string
	imageDir     string
	storePath    string
	verifyImages bool
	keepMetadata bool
)

// singleDayCmd fetches one day's picture
var singleDayCmd = &cobra.Command{
	Use:     "single-day [date]",
	Aliases: []string{"sd"},
	Short:   "Fetch the picture for a single day",
	Long: `Fetch the Astronomy Picture of the Day for one date.

Dates are given as YYYY-MM-DD and may not be earlier than 1995-06-16,
the first day the service published a picture. Without a date the
current day is fetched.`,
	Example: `  # Fetch today's picture
  apodsaver single-day

  # Fetch a specific day
  apodsaver sd 2023-10-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildFetcher()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return reportResult(f.FetchToday())
		}
		return reportResult(f.FetchDate(args[0]))
	},
}

// rangeDaysCmd fetches an inclusive date range
var rangeDaysCmd = &cobra.Command{
	Use:     "range-days <start> <end>",
	Aliases: []string{"rgd"},
	Short:   "Fetch pictures for a range of days",
	Long: `Fetch the Astronomy Picture of the Day for every date between
start and end, inclusive. Days already in the local store are skipped.`,
	Example: `  # Fetch a week of pictures
  apodsaver range-days 2023-10-01 2023-10-07`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end := args[0], args[1]
		if start > end {
			return fmt.Errorf("start date %s is after end date %s", start, end)
		}
		f, err := buildFetcher()
		if err != nil {
			return err
		}
		return reportResult(f.FetchRange(start, end))
	},
}

// randomDaysCmd fetches randomly chosen days
var randomDaysCmd = &cobra.Command{
	Use:     "random-days <count>",
	Aliases: []string{"rnd"},
	Short:   "Fetch a number of randomly chosen days",
	Example: `  # Fetch five random pictures
  apodsaver random-days 5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var count int
		if _, err := fmt.Sscanf(args[0], "%d", &count); err != nil || count < 1 {
			return fmt.Errorf("count must be a positive number, got %q", args[0])
		}
		f, err := buildFetcher()
		if err != nil {
			return err
		}
		return reportResult(f.FetchRandom(count))
	},
}

// fromLastDayCmd resumes from the most recent stored day
var fromLastDayCmd = &cobra.Command{
	Use:     "from-last-day",
	Aliases: []string{"fld"},
	Short:   "Fetch every day since the last saved one",
	Long: `Fetch every Astronomy Picture of the Day published after the most
recent date in the local store, up to today. Requires at least one
previously saved day.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := buildFetcher()
		if err != nil {
			return err
		}
		return reportResult(f.FetchSinceLast())
	},
}

func init() {
	for _, cmd := range []*cobra.Command{singleDayCmd, rangeDaysCmd, randomDaysCmd, fromLastDayCmd} {
		cmd.Flags().StringVar(&apiKey, "api-key", "", "NASA API key (overrides config and stored credentials)")
		cmd.Flags().StringVarP(&imageDir, "image-dir", "o", "", "directory for downloaded images")
		cmd.Flags().StringVar(&storePath, "store", "", "path of the metadata store file")
		cmd.Flags().BoolVar(&verifyImages, "verify-images", false, "re-download days whose image file is missing")
		cmd.Flags().BoolVar(&keepMetadata, "keep-metadata", true, "keep metadata when the image download fails")
		rootCmd.AddCommand(cmd)
	}
}

// buildFetcher loads config, initializes logging and wires the fetcher.
func buildFetcher() (*fetcher.Fetcher, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.WithField("version", version).Info("apodsaver starting")

	f, err := fetcher.New(cfg)
	if err != nil {
		if errors.Is(err, store.ErrCorruptStore) {
			ui.PrintError("The metadata store could not be parsed", err.Error())
			fmt.Println("\nThe store file was left untouched. Repair or remove it, then run again.")
			os.Exit(1)
		}
		return nil, err
	}
	return f, nil
}

// loadConfig merges file, environment and command line settings.
func loadConfig() (*config.Config, error) {
	flags := make(map[string]interface{})
	if apiKey != "" {
		flags["api-key"] = apiKey
	}
	if imageDir != "" {
		flags["image-dir"] = imageDir
	}
	if storePath != "" {
		flags["store"] = storePath
	}
	if verifyImages {
		flags["verify-images"] = true
	}
	if !keepMetadata {
		flags["keep-metadata"] = false
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// reportResult prints the fetch pass summary in a human friendly way.
func reportResult(result *fetcher.Result, err error) error {
	if err != nil {
		if errors.Is(err, apod.ErrInvalidDate) {
			ui.PrintError("Invalid date", err.Error())
			return err
		}
		if errors.Is(err, fetcher.ErrEmptyStore) {
			ui.PrintWarning("Nothing saved yet", "fetch a single day first, then from-last-day can resume")
			return err
		}
		if fetcher.IsRetryableFailure(err) {
			ui.PrintWarning("Rate limited by the API", "wait a while and try again")
		}
		return err
	}

	ui.PrintInfo("Fetched", fmt.Sprintf("%d", result.Fetched))
	ui.PrintInfo("Skipped", fmt.Sprintf("%d", result.Skipped))
	if result.Failed > 0 {
		ui.PrintWarning("Failed", fmt.Sprintf("%d", result.Failed))
		for _, e := range result.Errors {
			ui.PrintError("  " + e.Error())
		}
	}
	if result.Fetched > 0 {
		ui.PrintSuccess("Done.")
	}
	return nil
}
