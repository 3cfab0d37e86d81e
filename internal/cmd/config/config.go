// Package config provides CLI commands for managing intake configuration.
package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/intake/internal/config"
	tuiconfig "github.com/Iron-Ham/intake/internal/tui/config"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

// keyTypes lists the keys that can be set from the command line. The API
// token is excluded; set it with INTAKE_API_TOKEN or a .env file.
var keyTypes = map[string]string{
	"api.base_url":         "string",
	"api.timeout_seconds":  "int",
	"ledger.scaling":       "scaling",
	"ledger.calendar_days": "int",
	"tui.theme":            "theme",
	"logging.level":        "level",
	"logging.dir":          "string",
}

// NewCommand returns the config command tree.
func NewCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or modify intake configuration",
		Long: `View or modify intake configuration.

Without arguments, opens an interactive configuration UI.
Use 'config show' to display configuration non-interactively.
Use subcommands to modify settings or create a config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tuiconfig.Run(targetFile())
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show current configuration as YAML",
			Args:  cobra.NoArgs,
			RunE:  runConfigShow,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  intake config set api.base_url https://nutrition.example.com
  intake config set ledger.scaling per_reference_weight

Valid keys:
  api.base_url          - Scheme and host of the nutrition API
  api.timeout_seconds   - HTTP timeout in seconds (1-300)
  ledger.scaling        - per_100g or per_reference_weight
  ledger.calendar_days  - Days offered by the TUI date picker (1-31)
  tui.theme             - default, monokai, dracula, nord or gruvbox
  logging.level         - debug, info, warn or error
  logging.dir           - Directory for intake.log`,
			Args: cobra.ExactArgs(2),
			RunE: runConfigSet,
		},
		&cobra.Command{
			Use:   "init",
			Short: "Create a default config file",
			Long:  `Create a default config file at ~/.config/intake/config.yaml with all available options.`,
			Args:  cobra.NoArgs,
			RunE:  runConfigInit,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show the config file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
		&cobra.Command{
			Use:   "edit",
			Short: "Open config file in your editor",
			Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
			Args: cobra.NoArgs,
			RunE: runConfigEdit,
		},
		&cobra.Command{
			Use:   "reset [key]",
			Short: "Reset configuration to defaults",
			Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.`,
			Args: cobra.MaximumNArgs(1),
			RunE: runConfigReset,
		},
		newThemeCmd(),
	)
	return configCmd
}

// Register adds the config command to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(NewCommand())
}

// targetFile is the file changes are written to: the active config file, or
// the default location when none was read.
func targetFile() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return appconfig.ConfigFile()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	settings := viper.AllSettings()
	if api, ok := settings["api"].(map[string]any); ok {
		if token, _ := api["token"].(string); token != "" {
			api["token"] = "(set)"
		}
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# Config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	keyType, ok := keyTypes[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'intake config set --help' to see valid keys", key)
	}

	var typedValue any
	switch keyType {
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		typedValue = intVal
	case "scaling":
		typedValue, ok = oneOf(value, appconfig.ValidScalings())
	case "theme":
		typedValue, ok = oneOf(value, appconfig.ValidThemes())
	case "level":
		typedValue, ok = oneOf(strings.ToLower(value), appconfig.ValidLogLevels())
	default:
		typedValue = value
	}
	if !ok {
		return fmt.Errorf("invalid value for %s: %s", key, value)
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if err := validate(key); err != nil {
		viper.Set(key, previous)
		return err
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

func oneOf(value string, options []string) (string, bool) {
	return value, slices.Contains(options, value)
}

// validate checks the current viper state and reports failures for key.
func validate(key string) error {
	var cfg appconfig.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return err
	}
	for _, verr := range cfg.Validate() {
		if verr.Field == key {
			return fmt.Errorf("invalid value for %s: %s", key, verr.Message)
		}
	}
	return nil
}

func writeConfig() (string, error) {
	configFile := targetFile()
	if err := appconfig.Write(configFile); err != nil {
		return "", err
	}
	return configFile, nil
}

const defaultConfigContent = `# Intake Configuration

# Remote nutrition API
api:
  # Scheme and host of the API
  base_url: http://localhost:8080
  # The bearer token is read from INTAKE_API_TOKEN or a .env file
  # HTTP timeout for each call, in seconds
  timeout_seconds: 10

# Ledger settings
ledger:
  # How meal profiles are scaled to the consumed weight
  # Options: per_100g, per_reference_weight
  scaling: per_100g
  # Days, ending today, offered by the TUI date picker
  calendar_days: 7

# TUI (terminal user interface) settings
tui:
  # Options: default, monokai, dracula, nord, gruvbox
  theme: default

# Logging
logging:
  # Options: debug, info, warn, error
  level: info
  # Directory for intake.log (empty = stderr, or the config directory for the TUI)
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'intake config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: INTAKE_* (e.g., INTAKE_API_TOKEN), also read from .env")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := targetFile()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...")
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configFile, []byte(defaultConfigContent), 0o644); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := appconfig.Default()
	defaultValues := map[string]any{
		"api.base_url":         defaults.API.BaseURL,
		"api.timeout_seconds":  defaults.API.TimeoutSeconds,
		"ledger.scaling":       defaults.Ledger.Scaling,
		"ledger.calendar_days": defaults.Ledger.CalendarDays,
		"tui.theme":            defaults.TUI.Theme,
		"logging.level":        defaults.Logging.Level,
		"logging.dir":          defaults.Logging.Dir,
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for key, value := range defaultValues {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaultValues[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'intake config set --help' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
