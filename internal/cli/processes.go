package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/flownodes"
)

// processRow is a process filter option with its failed flow node count. Failed is
// nil when not requested and -1 when the engine did not report a total.
type processRow struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Failed *int   `json:"failedFlowNodes,omitempty"`
}

// failedCounter counts failed flow nodes per process. *bpm.Client implements it.
type failedCounter interface {
	CountFailedFlowNodes(ctx context.Context, processID string) (int, error)
}

// NewProcessesCmd creates the processes command, which lists the process filter
// options.
func NewProcessesCmd() *cobra.Command {
	var (
		counts  bool
		refresh bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "processes",
		Short: "List the processes of the process filter",
		Long: `Lists the deployed processes as the process filter offers them: by name, newest
version first. The list is cached for cache.ttl_seconds; --refresh reloads it.`,
		Example: `  flowadmin processes
  flowadmin processes --failed-counts --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.GetGlobalConfig()

			format, err := outputFormat(output)
			if err != nil {
				return err
			}
			src, err := newEngineSource(ctx, cfg)
			if err != nil {
				return err
			}
			if refresh {
				if err := src.processes.Invalidate(); err != nil {
					logger.Warn().Ctx(ctx).Err(err).Msg("could not drop cached process list")
				}
			}

			processes, err := src.ListProcesses(ctx)
			if err != nil {
				return err
			}
			rows := processRows(processes)
			if counts {
				if err := countFailed(ctx, src.Client, rows); err != nil {
					return err
				}
			}

			if format == config.OutputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return renderProcessesTable(cmd.OutOrStdout(), rows, counts)
		},
	}

	cmd.Flags().BoolVar(&counts, "failed-counts", false, "count the failed flow nodes of every process")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the process list from the engine")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json (default from config)")

	return cmd
}

// processRows returns the filter options without the all processes entry.
func processRows(processes []bpm.Process) []processRow {
	options := flownodes.ProcessOptions(processes)
	rows := make([]processRow, 0, len(options))
	for _, opt := range options {
		if opt.ID == "" {
			continue
		}
		rows = append(rows, processRow{ID: opt.ID, Label: opt.Label})
	}
	return rows
}

// countRequestsPerSecond caps the count queries sent to the engine.
const countRequestsPerSecond = 20

// countFailed fills Failed of every row, querying the engine concurrently.
func countFailed(ctx context.Context, counter failedCounter, rows []processRow) error {
	workers := runtime.NumCPU()
	limiter := rate.NewLimiter(rate.Limit(countRequestsPerSecond), workers)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range rows {
		g.Go(func() error {
			if err := limiter.Wait(gCtx); err != nil {
				return err
			}
			n, err := counter.CountFailedFlowNodes(gCtx, rows[i].ID)
			if errors.Is(err, bpm.ErrTotalUnknown) {
				n, err = -1, nil
			}
			if err != nil {
				return fmt.Errorf("counting failed flow nodes of %s: %w", rows[i].Label, err)
			}
			rows[i].Failed = &n
			return nil
		})
	}
	return g.Wait()
}

func renderProcessesTable(w io.Writer, rows []processRow, counts bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No processes deployed")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if counts {
		_, _ = fmt.Fprintln(tw, "ID\tPROCESS\tFAILED")
	} else {
		_, _ = fmt.Fprintln(tw, "ID\tPROCESS")
	}
	for _, r := range rows {
		if !counts {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Label)
			continue
		}
		failed := "?"
		if r.Failed != nil && *r.Failed >= 0 {
			failed = printer.Sprintf("%d", *r.Failed)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Label, failed)
	}
	return tw.Flush()
}
