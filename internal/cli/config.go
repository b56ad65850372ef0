package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes the environment variables that override config file values.
const EnvPrefix = "THEIACLOUD_"

// Config represents the configuration for the theiacloud CLI.
// It names the service and application the commands talk to.
type Config struct {
	// ServiceURL is the URL of the Theia Cloud service. A trailing path is ignored.
	ServiceURL string `yaml:"service_url" toml:"service_url" json:"service_url"`
	// AppID is the application id registered with the service
	AppID string `yaml:"app_id" toml:"app_id" json:"app_id"`
	// AppDefinition is the default app definition for launches and new sessions
	AppDefinition string `yaml:"app_definition,omitempty" toml:"app_definition,omitempty" json:"app_definition,omitempty"`
	// User is the user commands act for
	User string `yaml:"user,omitempty" toml:"user,omitempty" json:"user,omitempty"`
	// AccessToken is a bearer token, usually a Keycloak JWT
	AccessToken string `yaml:"access_token,omitempty" toml:"access_token,omitempty" json:"access_token,omitempty"`
	// Timeout bounds every call, as a Go duration string
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty"`
	// Retries is the number of additional launch attempts
	Retries int `yaml:"retries,omitempty" toml:"retries,omitempty" json:"retries,omitempty"`
}

var config *Config

// configKeys lists the keys accepted by "config set" in display order.
var configKeys = []string{"service_url", "app_id", "app_definition", "user", "access_token", "timeout", "retries"}

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/theiacloud on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "theiacloud", DefaultConfigFile), nil
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

// ReadConfigFile reads the configuration stored in file. A missing file yields an
// empty configuration. Files ending in .toml are decoded as TOML, all others as YAML.
func ReadConfigFile(file string) (*Config, error) {
	var c Config
	content, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &c, nil
		}
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if isTOML(file) {
		if _, err := toml.Decode(string(content), &c); err != nil {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	return &c, nil
}

// LoadConfig loads the configuration from file and applies the environment on top.
// Variables from a .env file in the working directory are loaded first; variables
// already set in the environment win over it.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	c, err := ReadConfigFile(file)
	if err != nil {
		return err
	}

	if cwd, err := os.Getwd(); err == nil {
		_ = godotenv.Load(filepath.Join(cwd, ".env")) // no error if .env doesn't exist
	}
	if err := c.applyEnv(); err != nil {
		return err
	}

	config = c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

func (cfg *Config) applyEnv() error {
	for _, key := range configKeys {
		value, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(key))
		if !ok || value == "" {
			continue
		}
		if err := cfg.Set(key, value); err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, strings.ToUpper(key), err)
		}
	}
	return nil
}

// Set assigns value to the configuration key.
func (cfg *Config) Set(key, value string) error {
	switch key {
	case "service_url":
		cfg.ServiceURL = strings.TrimSpace(value)
	case "app_id":
		cfg.AppID = value
	case "app_definition":
		cfg.AppDefinition = value
	case "user":
		cfg.User = value
	case "access_token":
		cfg.AccessToken = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("timeout must be a duration such as 30s: %w", err)
		}
		cfg.Timeout = value
	case "retries":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.New("retries must be a non-negative integer")
		}
		cfg.Retries = n
	default:
		return fmt.Errorf("unknown config key %q, valid keys are %s", key, strings.Join(configKeys, ", "))
	}
	return nil
}

// WriteConfig writes the configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var content []byte
	if isTOML(file) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
		content = buf.Bytes()
	} else {
		content, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
	}

	err = os.WriteFile(file, content, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig checks that the service can be addressed.
func (cfg *Config) ValidateConfig() error {
	if cfg.ServiceURL == "" {
		return errors.New("service URL is not configured, run \"theiacloud config set service_url <url>\"")
	}
	if cfg.AppID == "" {
		return errors.New("app id is not configured, run \"theiacloud config set app_id <id>\"")
	}
	return nil
}

// GetTimeout returns the configured call timeout, or zero if none is set.
func (cfg *Config) GetTimeout() time.Duration {
	if cfg.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// GetTokenExpiry returns the expiry of the access token taken from its exp claim.
// The signature is not verified; the service does that. Tokens that are not JWTs
// or carry no exp claim never expire.
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.AccessToken == "" {
		return time.Time{}
	}
	token, _, err := jwt.NewParser().ParseUnverified(cfg.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// Print prints the configuration in a human-readable format. The access token is masked.
func (cfg *Config) Print(w io.Writer) {
	fmt.Fprintf(w, "Service URL:    %s\n", cfg.ServiceURL)
	fmt.Fprintf(w, "App ID:         %s\n", cfg.AppID)
	fmt.Fprintf(w, "App definition: %s\n", cfg.AppDefinition)
	fmt.Fprintf(w, "User:           %s\n", cfg.User)
	fmt.Fprintf(w, "Access token:   %s\n", maskToken(cfg.AccessToken))
	fmt.Fprintf(w, "Timeout:        %s\n", cfg.Timeout)
	fmt.Fprintf(w, "Retries:        %d\n", cfg.Retries)
}

func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if exp := (&Config{AccessToken: token}).GetTokenExpiry(); !exp.IsZero() {
		return fmt.Sprintf("******** (expires %s)", exp.Format(time.RFC3339))
	}
	return "********"
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: `Manage CLI configuration settings like the service URL and application id.

Values can be overridden with THEIACLOUD_* environment variables, for example
THEIACLOUD_SERVICE_URL or THEIACLOUD_ACCESS_TOKEN. A .env file in the working
directory is read as well.`,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	setCmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: fmt.Sprintf(`Set a configuration value and save the config file.

Valid keys: %s

Examples:
  theiacloud config set service_url https://try.theia-cloud.io
  theiacloud config set app_id asdfghjkl
  theiacloud config set timeout 1m`, strings.Join(configKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ReadConfigFile(configFile)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.WriteConfig(configFile); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"key":         args[0],
					"config_file": configFile,
				})
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "%s updated\n", args[0])
			cmd.Printf("Config file: %s\n", configFile)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(configFile); err != nil {
				return err
			}
			cfg := GetConfig()
			if jsonOutput {
				shown := *cfg
				shown.AccessToken = maskToken(cfg.AccessToken)
				return printJSON(cmd.OutOrStdout(), shown)
			}
			cfg.Print(cmd.OutOrStdout())
			cmd.Printf("Config file:    %s\n", configFile)
			return nil
		},
	}

	configCmd.AddCommand(setCmd, showCmd)
	return configCmd
}
