package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"apodsaver/pkg/auth"
	"apodsaver/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the NASA API key",
	Long: `Manage the stored NASA API key.

The key is stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (APODSAVER_API_KEY or NASA_API_KEY)

A free key can be requested at https://api.nasa.gov.`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Store a NASA API key securely",
	Long: `Store a NASA API key in the system keychain or an encrypted file.

The key is entered hidden, never echoed. Without a name argument the
key is stored under the name "default" and used automatically.`,
	Example: `  # Store the default API key
  apodsaver auth login

  # Store a second key under its own name
  apodsaver auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove a stored API key",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogout,
}

// authShowCmd represents the auth show command
var authShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored API keys",
	Long:  `List stored API keys with their values masked.`,
	Run:   runAuthShow,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authShowCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := auth.DefaultCredentialName
	if len(args) > 0 {
		name = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	// Confirm overwriting an existing key
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("A key named %q already exists. Replace it? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("Enter your NASA API key (it will be hidden as you type).")
	fmt.Println("Get a free key at https://api.nasa.gov if you don't have one.")
	fmt.Println()

	var apiKey string
	for {
		fmt.Print("API key: ")
		apiKey, err = readPassword()
		if err != nil {
			ui.PrintError("Failed to read API key", err.Error())
			os.Exit(1)
		}

		if len(apiKey) < 10 {
			fmt.Println("\nThat looks too short for a NASA API key.")
			fmt.Print("Try again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	cred := &auth.Credential{
		Name:   name,
		APIKey: apiKey,
	}

	if err := manager.Store(cred); err != nil {
		ui.PrintError("Failed to store API key", err.Error())
		os.Exit(1)
	}

	fmt.Println()
	ui.PrintSuccess(fmt.Sprintf("API key %q stored securely.", name))
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	name := auth.DefaultCredentialName
	if len(args) > 0 {
		name = args[0]
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove API key", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("API key %q removed.", name))
}

func runAuthShow(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	creds, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list API keys", err.Error())
		os.Exit(1)
	}

	if len(creds) == 0 {
		ui.PrintWarning("No stored API keys", "run 'apodsaver auth login' to add one")
		return
	}

	for _, cred := range creds {
		sanitized := auth.SanitizeCredential(cred)
		ui.PrintInfo(sanitized.Name, sanitized.APIKey)
	}
}

// readPassword reads a line from stdin without echoing it.
func readPassword() (string, error) {
	data, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
