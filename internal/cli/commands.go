// Package cli implements the theiacloud command line interface on top of the
// theiacloud service client.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/theiacloud/theiacloud-go/internal/common/apperrors"
	"github.com/theiacloud/theiacloud-go/internal/common/browser"
	"github.com/theiacloud/theiacloud-go/internal/common/logtrace"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
)

var (
	// Global flags
	jsonOutput  bool
	configFile  string
	callTimeout time.Duration
	verbose     bool
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// systemNavigator opens launched sessions unless --no-browser is given.
var systemNavigator theiacloud.Navigator = browser.System{}

// NewRootCmd builds the theiacloud command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "theiacloud [command] [flags]",
		Short: "Theia Cloud CLI - launch and manage Theia Cloud sessions and workspaces",
		Long: `Theia Cloud CLI is a command line client for a Theia Cloud service.
It launches sessions and opens them in the browser, and lists, starts and stops
sessions and workspaces of a user.

Examples:
  # Point the CLI at a service
  theiacloud config set service_url https://try.theia-cloud.io
  theiacloud config set app_id asdfghjkl

  # Check that the service serves the application
  theiacloud ping

  # Launch an ephemeral session and open it
  theiacloud launch --app-definition theia-cloud-demo

  # List the workspaces of the configured user
  theiacloud workspace list`,
		PersistentPreRunE: preRunHandlePersistents,
		SilenceErrors:     true,
		SilenceUsage:      true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// Set up persistent flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().DurationVarP(&callTimeout, "timeout", "", 0, "Timeout of each service call (default from config, else 30s)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log service calls to stderr")

	// Add commands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newLaunchCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newWorkspaceCmd())
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main(). Cancelling ctx aborts service calls and launch retries.
func Execute(ctx context.Context) {
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		if jsonOutput {
			printJSON(os.Stdout, errorOutput(err))
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errorOutput is the JSON form of a failed command. Application errors add the
// messages of the errors they wrap and their status code when one is set.
func errorOutput(err error) map[string]any {
	kv := map[string]any{
		"error": err.Error(),
	}
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		if all := appErr.ErrorAll(); all != appErr.Error() {
			kv["details"] = all
		}
		if code := appErr.StatusCode(); code != 0 {
			kv["status"] = code
		}
	}
	return kv
}

// preRunHandlePersistents resolves the config file and loads the configuration
// before any command that talks to the service.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		var err error
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if verbose {
		logtrace.InitLogger(zerolog.DebugLevel)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" || c.Name() == "version" {
			return nil
		}
	}

	if err := LoadConfig(configFile); err != nil {
		return err
	}
	return GetConfig().ValidateConfig()
}

// newClient creates a service client from the loaded configuration and global flags.
func newClient(navigator theiacloud.Navigator) *theiacloud.Client {
	cfg := GetConfig()
	logger := logtrace.Nop()
	if verbose {
		logger = logtrace.Default()
	}
	opts := []theiacloud.ClientOption{theiacloud.WithLogger(logger)}
	if navigator != nil {
		opts = append(opts, theiacloud.WithNavigator(navigator))
	}
	timeout := callTimeout
	if timeout <= 0 {
		timeout = cfg.GetTimeout()
	}
	if timeout > 0 {
		opts = append(opts, theiacloud.WithDefaultTimeout(timeout))
	}
	if cfg.AccessToken != "" {
		opts = append(opts, theiacloud.WithAccessToken(cfg.AccessToken, cfg.GetTokenExpiry()))
	}
	return theiacloud.NewClient(opts...)
}

// serviceRequest returns the request header shared by every command.
func serviceRequest() theiacloud.ServiceRequest {
	return theiacloud.ServiceRequest{ServiceURL: GetConfig().ServiceURL}
}

// resolveUser returns the user flag if set, otherwise the configured user.
func resolveUser(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if u := GetConfig().User; u != "" {
		return u, nil
	}
	return "", errors.New("user is required, pass --user or run \"theiacloud config set user <user>\"")
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of theiacloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				kv := map[string]string{
					"version":     getCLIVersion(),
					"config_file": configFile,
				}
				return printJSON(cmd.OutOrStdout(), kv)
			}
			cmd.Printf("theiacloud CLI %s\n", getCLIVersion())
			cmd.Printf("Config file: %s\n", configFile)
			return nil
		},
	}
}

// printJSON prints data as indented JSON
func printJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
