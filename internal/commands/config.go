package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/diogo/transcribechat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
		Long: `Show or change transcribechat settings.

Settings live in ~/.transcribechat/config.json. TRANSCRIBECHAT_SERVER_URL,
TRANSCRIBECHAT_LOCALE and TRANSCRIBECHAT_LOG_FILE (also read from a .env file
in the working directory) override the file; command flags override both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, formatJSON)
		},
	}

	cmd.AddCommand(newConfigShowCmd(deps))
	cmd.AddCommand(newConfigSetCmd(deps))
	cmd.AddCommand(newConfigPathCmd(deps))

	return cmd
}

func newConfigShowCmd(deps *Dependencies) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatJSON, "Output format: json or yaml")
	return cmd
}

func runConfigShow(deps *Dependencies, format string) error {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(deps.stderr(), "Warning: %v\n", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case formatJSON:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case formatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("unknown format %q (available: json, yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	_, err = deps.stdout().Write(data)
	return err
}

func newConfigSetCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: fmt.Sprintf(`Change a setting and save it to the config file.

Keys: %s`, strings.Join(config.Keys(), ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(deps, args[0], args[1])
		},
	}
}

func runConfigSet(deps *Dependencies, key, value string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintln(deps.stderr(), successStyle.Render(fmt.Sprintf("✓ %s = %s", key, value)))
	return nil
}

// loadFileConfig reads the config file without environment overrides, so
// that saving does not persist values that came from the environment
func loadFileConfig() (config.Config, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return config.DefaultConfig(), err
	}
	return config.LoadConfigFile(path)
}

func newConfigPathCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config and log file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			cfg, _ := loadFileConfig()
			logPath, err := config.GetLogPath(config.ApplyEnv(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(deps.stdout(), "config: %s\nlog:    %s\n", configPath, logPath)
			return nil
		},
	}
}
