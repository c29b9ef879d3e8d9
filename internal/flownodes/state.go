package flownodes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// ErrProcessFilterDisabled is returned when the process filter is used on a list that
// was opened for a single case.
var ErrProcessFilterDisabled = errors.New("process filter is disabled for a case-scoped list")

// Status is the lifecycle of the list.
type Status int

// List statuses.
const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusEmpty
	StatusError
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options configure a new list.
type Options struct {
	Policy pagination.Policy

	// AppPath is the application path of the details links.
	AppPath string

	// CaseID opens the list for a single case, as a deep link does. The process filter
	// is disabled for such a list.
	CaseID string

	// ProcessID and Search are initial filters. Unlike CaseID they can be changed and
	// erased like any other filter.
	ProcessID string
	Search    string

	// Sort overrides the initial sort. Zero means bpm.DefaultSort.
	Sort bpm.Sort
}

// State is the full state of a failed flow node list. It is a value: Reduce returns a
// new State and never mutates the one it is given.
type State struct {
	Status Status
	Err    error

	// Query holds the filters and sort of the list and the window of the last request.
	Query bpm.FlowNodeQuery

	Items   []bpm.FlowNode
	Range   pagination.Range
	RangeOK bool

	// Exhausted is set once a response proved that no more items exist.
	Exhausted bool

	policy      pagination.Policy
	appPath     string
	caseScoped  bool
	deepLink    string
	initialSort bpm.Sort

	initialProcess string
	initialSearch  string

	seq       uint64
	pending   *Fetch
	loadMores int
}

// New returns an idle list. Dispatch Init to load it.
func New(opts Options) (State, error) {
	if opts.Policy == (pagination.Policy{}) {
		opts.Policy = pagination.DefaultPolicy()
	}
	if err := opts.Policy.Validate(); err != nil {
		return State{}, err
	}
	if opts.Sort.IsZero() {
		opts.Sort = bpm.DefaultSort
	}
	if _, err := SortOptionFor(opts.Sort); err != nil {
		return State{}, err
	}
	if opts.AppPath == "" {
		opts.AppPath = bpm.DefaultAppPath
	}
	if opts.CaseID != "" && opts.ProcessID != "" {
		return State{}, ErrProcessFilterDisabled
	}

	s := State{
		Status:      StatusIdle,
		policy:      opts.Policy,
		appPath:     opts.AppPath,
		caseScoped:  opts.CaseID != "",
		deepLink:    opts.CaseID,
		initialSort: opts.Sort,

		initialProcess: strings.TrimSpace(opts.ProcessID),
		initialSearch:  strings.TrimSpace(opts.Search),
	}
	s.Query = s.initialQuery()
	return s, nil
}

func (s State) initialQuery() bpm.FlowNodeQuery {
	return bpm.FlowNodeQuery{
		Params:    s.policy.First(),
		ProcessID: s.initialProcess,
		CaseID:    s.deepLink,
		Search:    s.initialSearch,
		Sort:      s.initialSort,
	}
}

// Policy returns the load-more policy of the list.
func (s State) Policy() pagination.Policy {
	return s.policy
}

// AppPath returns the application path used for details links.
func (s State) AppPath() string {
	return s.appPath
}

// Seq returns the sequence number of the latest fetch issued.
func (s State) Seq() uint64 {
	return s.seq
}

// Pending returns the fetch awaiting a response, or nil.
func (s State) Pending() *Fetch {
	return s.pending
}

// Shown is the number of items materialized so far.
func (s State) Shown() int {
	return len(s.Items)
}

// Meta returns the display metadata of the list.
func (s State) Meta() pagination.Meta {
	return pagination.NewMeta(s.Range, s.RangeOK, s.Shown(), s.Exhausted)
}

// CanLoadMore reports whether the load-more control is enabled.
func (s State) CanLoadMore() bool {
	return s.Status == StatusLoaded && s.Meta().HasMore
}

// ProcessFilterEnabled is false for lists opened on a single case.
func (s State) ProcessFilterEnabled() bool {
	return !s.caseScoped
}

// CaseScoped reports whether the list was opened on a single case.
func (s State) CaseScoped() bool {
	return s.caseScoped
}

// Sort returns the dropdown option of the current sort.
func (s State) Sort() SortOption {
	opt, err := SortOptionFor(s.Query.Sort)
	if err != nil {
		return DefaultSortOption
	}
	return opt
}
