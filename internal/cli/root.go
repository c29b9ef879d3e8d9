// Package cli implements the flowadmin command line: listing failed flow nodes,
// running the interactive console and managing the configuration file.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Required for zerolog context integration

// Viper keys of the persistent flags. Keys named after a configuration setting
// override that setting when the flag is given.
const (
	keyConfigFile = "config"
	keyNoCache    = "no-cache"
	keyDebug      = "debug"
)

//nolint:gochecknoglobals // Static flag table.
var settingFlags = []struct {
	flag, short, key, usage string
}{
	{"url", "u", "server.url", "engine base URL, for example http://localhost:8080/bonita"},
	{"app-path", "", "server.app_path", "application path of the task details links"},
	{"username", "", "server.username", "engine user to log in as (password from FLOWADMIN_PASSWORD)"},
	{"log-level", "l", "logging.level", "log level (trace|debug|info|warn|error)"},
}

// NewRootCmd creates the root command of the flowadmin CLI. It loads the
// configuration, applies flag overrides, sets up logging and tracing and wires the
// subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "flowadmin",
		Short:         "Failed flow node administration for a BPM engine",
		Long:          "flowadmin lists, filters and inspects the failed flow nodes of a BPM engine.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String(keyConfigFile, "", "config file (default $FLOWADMIN_HOME/config.yaml or ~/.flowadmin/config.yaml)")
	pf.Bool(keyDebug, false, "enable debug logging")
	pf.Bool(keyNoCache, false, "bypass the process list cache")
	for _, f := range settingFlags {
		pf.StringP(f.flag, f.short, "", f.usage)
		cobra.CheckErr(v.BindPFlag(f.key, pf.Lookup(f.flag)))
	}
	cobra.CheckErr(v.BindPFlag(keyConfigFile, pf.Lookup(keyConfigFile)))
	cobra.CheckErr(v.BindPFlag(keyNoCache, pf.Lookup(keyNoCache)))

	cmd.AddCommand(
		NewNodesCmd(), NewTUICmd(), NewProcessesCmd(), NewLinkCmd(), newConfigCmd(),
	)
	return cmd
}

// loadConfig reads the configuration file and applies the flags that were set.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	path := v.GetString(keyConfigFile)
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	for _, f := range settingFlags {
		if !v.IsSet(f.key) {
			continue
		}
		if err := cfg.Set(f.key, v.GetString(f.key)); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	if v.GetBool(keyNoCache) {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}

const rootCmdExample = `  # List the newest failed flow nodes
  flowadmin nodes

  # Walk every page of a case's failed flow nodes as JSON
  flowadmin nodes --case 3001 --all --output json

  # Open the interactive console on a single case
  flowadmin tui --case 3001

  # Show processes with their failed flow node counts
  flowadmin processes --failed-counts

  # Print the details link of a flow node
  flowadmin link 60002

  # Point flowadmin at another engine
  flowadmin config set server.url http://bpm.example.com:8080/bonita`
