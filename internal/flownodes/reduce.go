package flownodes

import (
	"fmt"
	"strings"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// Action is an input of Reduce. The set is closed.
type Action interface {
	isAction()
}

// Init loads the list with its initial filters and sort.
type Init struct{}

// SelectProcess filters on a process. An empty ProcessID selects all processes.
type SelectProcess struct {
	ProcessID string
}

// SelectSort changes the sort.
type SelectSort struct {
	Option SortOption
}

// Search filters on a search term. An empty term erases the search.
type Search struct {
	Term string
}

// FilterCase filters on a case id. An empty id erases the filter.
type FilterCase struct {
	CaseID string
}

// LoadMore appends the next continuation page.
type LoadMore struct{}

// Refresh re-runs the current query from the first page.
type Refresh struct{}

// Loaded is a successful response to the fetch with sequence number Seq.
type Loaded struct {
	Seq     uint64
	Items   []bpm.FlowNode
	Range   pagination.Range
	RangeOK bool
}

// Failed is a failed response to the fetch with sequence number Seq.
type Failed struct {
	Seq uint64
	Err error
}

func (Init) isAction()          {}
func (SelectProcess) isAction() {}
func (SelectSort) isAction()    {}
func (Search) isAction()        {}
func (FilterCase) isAction()    {}
func (LoadMore) isAction()      {}
func (Refresh) isAction()       {}
func (Loaded) isAction()        {}
func (Failed) isAction()        {}

// Fetch is a request the caller must run against the engine.
type Fetch struct {
	Seq   uint64
	Query bpm.FlowNodeQuery

	// Append is true for load-more fetches, whose items extend the list.
	Append bool
}

// Reduce applies an action. It returns the next state and the fetch to run, if any.
// Actions that do not apply in the current state (a load-more while loading, a stale
// response) return the state unchanged and no fetch.
func Reduce(s State, a Action) (State, *Fetch, error) {
	switch a := a.(type) {
	case Init:
		s.Query = s.initialQuery()
		return s.restart()

	case SelectProcess:
		if s.caseScoped {
			return s, nil, ErrProcessFilterDisabled
		}
		s.Query.ProcessID = strings.TrimSpace(a.ProcessID)
		return s.restart()

	case SelectSort:
		sort, err := a.Option.Sort()
		if err != nil {
			return s, nil, err
		}
		s.Query.Sort = sort
		return s.restart()

	case Search:
		s.Query.Search = strings.TrimSpace(a.Term)
		return s.restart()

	case FilterCase:
		s.Query.CaseID = strings.TrimSpace(a.CaseID)
		return s.restart()

	case Refresh:
		return s.restart()

	case LoadMore:
		if !s.CanLoadMore() {
			return s, nil, nil
		}
		return s.issue(s.policy.Continuation(s.loadMores+1), true)

	case Loaded:
		return s.loaded(a), nil, nil

	case Failed:
		if s.pending == nil || a.Seq != s.pending.Seq {
			return s, nil, nil
		}
		s.pending = nil
		s.Status = StatusError
		s.Err = a.Err
		return s, nil, nil

	default:
		return s, nil, fmt.Errorf("%w: action %T", ErrUnsupported, a)
	}
}

// restart drops the materialized items and fetches the first page.
func (s State) restart() (State, *Fetch, error) {
	s.Items = nil
	s.Range, s.RangeOK = pagination.Range{}, false
	s.Exhausted = false
	s.loadMores = 0
	return s.issue(s.policy.First(), false)
}

func (s State) issue(p pagination.Params, appendItems bool) (State, *Fetch, error) {
	s.seq++
	s.Query = s.Query.WithParams(p)
	s.Status = StatusLoading
	s.Err = nil
	s.pending = &Fetch{Seq: s.seq, Query: s.Query, Append: appendItems}
	return s, s.pending, nil
}

func (s State) loaded(a Loaded) State {
	if s.pending == nil || a.Seq != s.pending.Seq {
		return s
	}
	fetch := s.pending
	s.pending = nil

	if fetch.Append {
		items := make([]bpm.FlowNode, 0, len(s.Items)+len(a.Items))
		items = append(items, s.Items...)
		s.Items = append(items, a.Items...)
		s.loadMores++
	} else {
		s.Items = a.Items
	}
	if a.RangeOK {
		s.Range, s.RangeOK = a.Range, true
	}
	s.Exhausted = s.policy.Exhausted(fetch.Query.Count, len(a.Items))

	if len(s.Items) == 0 {
		s.Status = StatusEmpty
	} else {
		s.Status = StatusLoaded
	}
	return s
}
