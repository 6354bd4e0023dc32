package commands

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/erbench/am"
	"github.com/teranos/erbench/display"
	"github.com/teranos/erbench/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage erbench configuration",
	Long: `am - Manage erbench configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (ERBENCH_* prefix)
3. Project config (./am.toml, searched upward)
4. User config (~/.erbench/am.toml)
5. System config (/etc/erbench/config.toml)
6. Default values

Examples:
  erbench am show                    # Show current configuration
  erbench am show --format json      # Show configuration in JSON format
  erbench am get prep.sim_threshold  # Get specific config value
  erbench am validate                # Validate current configuration
  erbench am where                   # List the config files that were checked`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current erbench configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, prep.folds)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	return writeConfig(cmd, cfg, format)
}

func writeConfig(cmd *cobra.Command, cfg *am.Config, format string) error {
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return display.WriteJSON(out, cfg)

	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# erbench configuration\n%s", string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# erbench configuration\n%s", string(data))

	default:
		return errors.WithHint(
			errors.NewInvalidConfig("unsupported format: %s", format),
			"supported formats: toml, json, yaml")
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return errors.NewNotFoundError("configuration key %q", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

type configSource struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	var sources []configSource
	for _, path := range am.ConfigPaths() {
		_, err := os.Stat(path)
		sources = append(sources, configSource{Path: path, Exists: err == nil})
	}

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), sources)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  [DEFAULT]  Built-in defaults")
	for _, s := range sources {
		state := "missing"
		if s.Exists {
			state = "loaded"
		}
		fmt.Fprintf(out, "  [%-7s]  %s\n", state, s.Path)
	}
	fmt.Fprintln(out, "  [ENV]      ERBENCH_* environment variables")
	return nil
}
