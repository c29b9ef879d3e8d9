package flownodes

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/logging"
)

// Source runs failed flow node queries. *bpm.Client implements it.
type Source interface {
	ListFailedFlowNodes(ctx context.Context, q bpm.FlowNodeQuery) (*bpm.FlowNodePage, error)
}

// Run executes a fetch and returns the action answering it.
func Run(ctx context.Context, src Source, f *Fetch) Action {
	page, err := src.ListFailedFlowNodes(ctx, f.Query)
	if err != nil {
		return Failed{Seq: f.Seq, Err: err}
	}
	return Loaded{Seq: f.Seq, Items: page.Items, Range: page.Range, RangeOK: page.RangeOK}
}

// List drives a State synchronously: every dispatched action that issues a fetch runs
// it before Dispatch returns. The CLI uses it; the console runs fetches as commands.
type List struct {
	src   Source
	state State
	log   zerolog.Logger
}

// NewList creates a synchronous list over src.
func NewList(src Source, opts Options) (*List, error) {
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	return &List{src: src, state: s, log: zerolog.Nop()}, nil
}

// SetLogger sets the list logger.
func (l *List) SetLogger(log zerolog.Logger) {
	l.log = logging.ComponentLogger(log, "flownodes")
}

// State returns the current state.
func (l *List) State() State {
	return l.state
}

// Dispatch reduces a, runs the fetch it issues and reduces the response. The returned
// error is the reducer error; a failed fetch is reported through State().Err.
func (l *List) Dispatch(ctx context.Context, a Action) error {
	next, fetch, err := Reduce(l.state, a)
	if err != nil {
		return err
	}
	l.state = next
	if fetch == nil {
		return nil
	}

	l.log.Debug().Ctx(ctx).
		Uint64("seq", fetch.Seq).
		Str("query", fetch.Query.Encode()).
		Bool("append", fetch.Append).
		Msg("fetching failed flow nodes")

	result := Run(ctx, l.src, fetch)
	l.state, _, err = Reduce(l.state, result)
	if err != nil {
		return err
	}
	if l.state.Status == StatusError {
		l.log.Warn().Ctx(ctx).Err(l.state.Err).Msg("failed flow node fetch failed")
	}
	return nil
}

// LoadAll keeps loading more until the list is exhausted, limit items are shown
// (when limit > 0) or a fetch fails.
func (l *List) LoadAll(ctx context.Context, limit int) error {
	for l.state.CanLoadMore() {
		if limit > 0 && l.state.Shown() >= limit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.Dispatch(ctx, LoadMore{}); err != nil {
			return err
		}
	}
	return nil
}
