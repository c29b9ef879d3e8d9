package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/tui"
)

// ErrNotInteractive is returned by the tui command when stdout is not a terminal.
var ErrNotInteractive = errors.New("the console needs an interactive terminal, use 'flowadmin nodes' instead")

// NewTUICmd creates the tui command, which opens the interactive console.
func NewTUICmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive failed flow node console",
		Long: `Opens the failed flow node console.

Keys: / search, c case filter, p next process, s next sort, m load more, r refresh,
esc clear filters, enter details, q quit.

--case opens the console on a single case, as a link from a case page does; the
process filter is disabled for such a console.`,
		Example: `  flowadmin tui
  flowadmin tui --case 3001`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runTUI(cmd *cobra.Command, flags *listFlags) error {
	if tui.DetectOutputMode(false, false, false) != tui.OutputModeInteractive {
		return ErrNotInteractive
	}

	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	src, err := newEngineSource(ctx, cfg)
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, cfg, src)
	if err != nil {
		return err
	}

	m, err := tui.NewFailedFlowNodesModel(ctx, src, opts)
	if err != nil {
		return err
	}
	if err := tui.Run(ctx, m); err != nil {
		return err
	}
	return m.Err()
}
