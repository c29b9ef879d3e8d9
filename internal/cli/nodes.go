package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/flownodes"
	"github.com/bpmops/flowadmin/internal/pagination"
	"github.com/bpmops/flowadmin/internal/tui"
)

// tabPadding is the minimum padding between table columns.
const tabPadding = 2

//nolint:gochecknoglobals // Shared number printer.
var printer = message.NewPrinter(language.English)

// nodesFlags holds the flags of the nodes command.
type nodesFlags struct {
	listFlags

	all    bool
	limit  int
	output string
}

// NewNodesCmd creates the nodes command, which prints the failed flow node list.
func NewNodesCmd() *cobra.Command {
	var flags nodesFlags

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List failed flow nodes",
		Long: `Lists failed flow nodes, newest failure first by default.

The first page holds 20 flow nodes. --all keeps loading more the way the console's
"Load more" control does, until the engine has nothing left; --limit stops once that
many flow nodes are shown.`,
		Example: `  # Newest failed flow nodes
  flowadmin nodes

  # Failed flow nodes of one process version, oldest first
  flowadmin nodes --process "Pool (1.0)" --sort "lastUpdateDate ASC"

  # Every failed flow node of a case as JSON
  flowadmin nodes --case 3001 --all --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNodes(cmd, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.all, "all", false, "load every page")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "load pages until at least this many flow nodes are shown, then cut")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table or json (default from config)")

	return cmd
}

func runNodes(cmd *cobra.Command, flags *nodesFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	format, err := outputFormat(flags.output)
	if err != nil {
		return err
	}
	if flags.limit < 0 {
		return fmt.Errorf("--limit must be >= 0, got %d", flags.limit)
	}

	src, err := newEngineSource(ctx, cfg)
	if err != nil {
		return err
	}
	opts, err := flags.options(ctx, cfg, src)
	if err != nil {
		return err
	}

	list, err := flownodes.NewList(src, opts)
	if err != nil {
		return err
	}
	list.SetLogger(logger)

	if err := list.Dispatch(ctx, flownodes.Init{}); err != nil {
		return err
	}
	if flags.all || flags.limit > 0 {
		if err := list.LoadAll(ctx, flags.limit); err != nil {
			return err
		}
	}

	state := list.State()
	if state.Status == flownodes.StatusError {
		return fmt.Errorf("listing failed flow nodes: %w", state.Err)
	}

	rows := state.Rows()
	if flags.limit > 0 && len(rows) > flags.limit {
		rows = rows[:flags.limit]
	}
	logger.Debug().Ctx(ctx).Int("shown", len(rows)).Str("query", state.Query.Encode()).Msg("failed flow nodes listed")

	if format == config.OutputJSON {
		return renderNodesJSON(cmd.OutOrStdout(), state, rows)
	}
	styled := tui.DetectOutputMode(false, false, false) != tui.OutputModePlain
	return renderNodesTable(cmd.OutOrStdout(), rows, state.Meta(), styled)
}

// outputFormat resolves the --output flag against the configured default.
func outputFormat(flag string) (string, error) {
	format := config.GetOutputFormat(flag)
	switch format {
	case config.OutputTable, config.OutputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// nodesDocument is the JSON form of the list.
type nodesDocument struct {
	Query string          `json:"query"`
	Items []flownodes.Row `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

func renderNodesJSON(w io.Writer, state flownodes.State, rows []flownodes.Row) error {
	if rows == nil {
		rows = []flownodes.Row{}
	}
	meta := state.Meta()
	meta.Shown = len(rows)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(nodesDocument{Query: state.Query.Encode(), Items: rows, Meta: meta})
}

var countStyle = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorHeader) //nolint:gochecknoglobals // Shared style.

func renderNodesTable(w io.Writer, rows []flownodes.Row, meta pagination.Meta, styled bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, flownodes.EmptyMessage)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PRIORITY\tID\tNAME\tTYPE\tFAILED ON\tCASE ID\tPROCESS")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Priority, r.ID, r.Name, r.Type, r.FailedOn, r.CaseID, r.Process)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	count := printer.Sprintf(flownodes.CountLabelFormat, len(rows))
	if styled {
		count = countStyle.Render(count)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, count)
	if meta.TotalKnown() {
		_, _ = printer.Fprintf(w, "Total failed flow nodes: %d\n", meta.Total)
	}
	if meta.HasMore || len(rows) < meta.Shown {
		_, _ = fmt.Fprintln(w, "More failed flow nodes are available: use --all or --limit")
	}
	return nil
}
