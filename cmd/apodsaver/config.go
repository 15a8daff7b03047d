package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"apodsaver/pkg/config"
	"apodsaver/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage apodsaver configuration.

Settings are merged in order of priority: command line flags,
environment variables (APODSAVER_*), configuration file, defaults.`,
}

// configInitCmd creates an example configuration file
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Run:   runConfigInit,
}

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Run:   runConfigShow,
}

// configValidateCmd checks a configuration file
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "apodsaver.yaml"
	}

	// Never overwrite an existing file
	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# apodsaver configuration file
#
# All options can also be set through environment variables prefixed
# with APODSAVER_, for example APODSAVER_API_KEY.

# Remote API settings
apod:
  # NASA API key. Leave empty to use a stored credential
  # ('apodsaver auth login') or the DEMO_KEY fallback.
  api_key: ""

  # Request timeout in seconds
  timeout: 30s

  # Ask the API for video thumbnails so video days still yield a picture
  thumbs: true

# Output settings
output:
  # Directory for downloaded images, one file per day named <date>.<ext>
  image_directory: "data/images"

  # Keep a day's metadata even when its image download fails
  keep_metadata_on_image_failure: true

  # Re-download days whose image file disappeared from disk
  verify_image_files: false

# Metadata store settings
store:
  # Path of the JSON record store
  path: "data/responses.json"

# Rate limiting
rate_limit:
  # API requests allowed per hour (NASA grants 1000 for registered keys)
  requests_per_hour: 1000

# Logging
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path; empty logs to the console
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to write configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Created " + configPath)
	fmt.Println("\nEdit the file, then check it with:")
	fmt.Printf("  apodsaver config validate --config %s\n", configPath)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the API key before display
	displayCfg := *cfg
	if displayCfg.APOD.APIKey != "" {
		if len(displayCfg.APOD.APIKey) > 8 {
			displayCfg.APOD.APIKey = displayCfg.APOD.APIKey[:4] + "..." + displayCfg.APOD.APIKey[len(displayCfg.APOD.APIKey)-4:]
		} else {
			displayCfg.APOD.APIKey = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (APODSAVER_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		// Try common locations
		possiblePaths := []string{
			"apodsaver.yaml",
			"apodsaver.yml",
			".apodsaver.yaml",
			".apodsaver.yml",
			filepath.Join(os.Getenv("HOME"), ".apodsaver.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "apodsaver", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	var warnings []string

	if cfg.APOD.APIKey == "" {
		warnings = append(warnings, "no API key configured, DEMO_KEY allows only 30 requests per hour")
	}
	if cfg.Output.ImageDirectory == "" {
		warnings = append(warnings, "image directory is empty")
	}
	if cfg.Store.Path == "" {
		warnings = append(warnings, "store path is empty")
	}

	if len(warnings) > 0 {
		fmt.Println()
		for _, w := range warnings {
			ui.PrintWarning("Warning", w)
		}
	}

	fmt.Println()
	ui.PrintSuccess("Configuration is valid.")
}
