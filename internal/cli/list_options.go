package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/config"
	"github.com/bpmops/flowadmin/internal/flownodes"
)

// processSource lists deployed processes.
type processSource interface {
	ListProcesses(ctx context.Context) ([]bpm.Process, error)
}

// listFlags are the filters shared by the nodes and tui commands.
type listFlags struct {
	process string
	caseID  string
	search  string
	sort    string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.process, "process", "",
		`process filter: a process id or a label such as "Pool (1.0)"`)
	cmd.Flags().StringVar(&f.caseID, "case", "", "show the failed flow nodes of a single case")
	cmd.Flags().StringVar(&f.search, "search", "", "search term")
	cmd.Flags().StringVar(&f.sort, "sort", "",
		`sort: "name ASC", "lastUpdateDate DESC" or a label such as "Failed on (Newest first)"`)
}

// options builds the list options from the configuration and the flags.
func (f *listFlags) options(ctx context.Context, cfg *config.Config, src processSource) (flownodes.Options, error) {
	sortOpt, err := cfg.SortOption()
	if err != nil {
		return flownodes.Options{}, err
	}
	if f.sort != "" {
		if sortOpt, err = flownodes.ParseSortExpr(f.sort); err != nil {
			return flownodes.Options{}, fmt.Errorf("--sort: %w", err)
		}
	}
	sort, err := sortOpt.Sort()
	if err != nil {
		return flownodes.Options{}, err
	}

	processID, err := resolveProcess(ctx, src, f.process)
	if err != nil {
		return flownodes.Options{}, fmt.Errorf("--process: %w", err)
	}

	return flownodes.Options{
		Policy:    cfg.Policy(),
		AppPath:   cfg.Server.AppPath,
		CaseID:    strings.TrimSpace(f.caseID),
		ProcessID: processID,
		Search:    f.search,
		Sort:      sort,
	}, nil
}

// resolveProcess maps a process id or dropdown label to a process id. The all
// processes label and an empty value select every process.
func resolveProcess(ctx context.Context, src processSource, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	processes, err := src.ListProcesses(ctx)
	if err != nil {
		return "", err
	}
	options := flownodes.ProcessOptions(processes)
	if opt, err := flownodes.ResolveProcessOption(options, value); err == nil {
		return opt.ID, nil
	}
	for _, opt := range options {
		if opt.ID != "" && opt.ID == value {
			return opt.ID, nil
		}
	}
	return "", fmt.Errorf("%w: process %q", flownodes.ErrUnsupported, value)
}
