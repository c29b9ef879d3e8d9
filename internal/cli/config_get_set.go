package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bpmops/flowadmin/internal/config"
)

const (
	passwordKey  = "server.password"
	maskedSecret = "********"
)

// NewConfigGetCmd creates the config get command.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value or section",
		Example: `  flowadmin config get server.url
  flowadmin config get list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetGlobalConfig()
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			if strings.EqualFold(strings.TrimSpace(args[0]), passwordKey) && value != "" {
				value = maskedSecret
			}
			return printValue(cmd, maskSection(value))
		},
	}
}

// NewConfigSetCmd creates the config set command. The value is written to the
// configuration file; environment overrides are not persisted.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Sets a configuration value. Keys: " + strings.Join(config.Keys(), ", "),
		Example: `  flowadmin config set server.url http://bpm.example.com:8080/bonita
  flowadmin config set list.stop_on_short_page false`,
		Args: cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetGlobalConfig().Path()
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			cmd.Printf("Set %s in %s\n", strings.ToLower(args[0]), path)
			return nil
		},
	}
}

// NewConfigListCmd creates the config list command.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sections := config.GetGlobalConfig().List()
			for name, section := range sections {
				sections[name] = maskSection(section)
			}
			return printValue(cmd, sections)
		},
	}
}

// maskSection hides the password of a server section.
func maskSection(value any) any {
	server, ok := value.(config.ServerConfig)
	if ok && server.Password != "" {
		server.Password = maskedSecret
		return server
	}
	return value
}

func printValue(cmd *cobra.Command, value any) error {
	switch v := value.(type) {
	case string, int, bool:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling %T: %w", v, err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
}
