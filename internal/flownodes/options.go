package flownodes

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
)

// ErrUnsupported is returned for any filter type, sort option or process label outside
// the closed sets of the list.
var ErrUnsupported = errors.New("unsupported case")

// SortOption is a sort choice as labelled in the sort dropdown.
type SortOption string

// Sort options.
const (
	SortNameAsc        SortOption = "Flow node name (Asc)"
	SortNameDesc       SortOption = "Flow node name (Desc)"
	SortFailedOnNewest SortOption = "Failed on (Newest first)"
	SortFailedOnOldest SortOption = "Failed on (Oldest first)"
)

// DefaultSortOption matches bpm.DefaultSort.
const DefaultSortOption = SortFailedOnNewest

// SortOptions returns the options in dropdown order.
func SortOptions() []SortOption {
	return []SortOption{SortNameAsc, SortNameDesc, SortFailedOnNewest, SortFailedOnOldest}
}

// ParseSortOption resolves a dropdown label.
func ParseSortOption(label string) (SortOption, error) {
	for _, opt := range SortOptions() {
		if string(opt) == label {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: sort option %q", ErrUnsupported, label)
}

// Sort returns the engine sort of the option.
func (o SortOption) Sort() (bpm.Sort, error) {
	switch o {
	case SortNameAsc:
		return bpm.Sort{Field: bpm.SortFieldName, Order: pagination.OrderAsc}, nil
	case SortNameDesc:
		return bpm.Sort{Field: bpm.SortFieldName, Order: pagination.OrderDesc}, nil
	case SortFailedOnNewest:
		return bpm.Sort{Field: bpm.SortFieldLastUpdateDate, Order: pagination.OrderDesc}, nil
	case SortFailedOnOldest:
		return bpm.Sort{Field: bpm.SortFieldLastUpdateDate, Order: pagination.OrderAsc}, nil
	default:
		return bpm.Sort{}, fmt.Errorf("%w: sort option %q", ErrUnsupported, string(o))
	}
}

// SortOptionFor maps an engine sort back to its dropdown option.
func SortOptionFor(s bpm.Sort) (SortOption, error) {
	for _, opt := range SortOptions() {
		if candidate, _ := opt.Sort(); candidate == s {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: sort %q", ErrUnsupported, s.String())
}

// ParseSortExpr accepts either a dropdown label or an engine expression such as
// "name ASC" or "lastUpdateDate+DESC", restricted to the fields the list sorts on.
func ParseSortExpr(expr string) (SortOption, error) {
	if opt, err := ParseSortOption(expr); err == nil {
		return opt, nil
	}
	field, order, err := pagination.ParseSort(expr)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return SortOptionFor(bpm.Sort{Field: field, Order: order})
}

// FilterKind is a user-facing filter of the list.
type FilterKind string

// Filter kinds.
const (
	FilterKindProcess FilterKind = "process"
	FilterKindCase    FilterKind = "case"
	FilterKindSearch  FilterKind = "search"
)

// ParseFilterKind resolves a filter name.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(strings.ToLower(strings.TrimSpace(s))) {
	case FilterKindProcess:
		return FilterKindProcess, nil
	case FilterKindCase:
		return FilterKindCase, nil
	case FilterKindSearch:
		return FilterKindSearch, nil
	default:
		return "", fmt.Errorf("%w: filter type %q", ErrUnsupported, s)
	}
}

// FilterAction builds the action applying value to the filter kind. An empty value
// erases the filter.
func FilterAction(kind FilterKind, value string) (Action, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case FilterKindProcess:
		return SelectProcess{ProcessID: value}, nil
	case FilterKindCase:
		return FilterCase{CaseID: value}, nil
	case FilterKindSearch:
		return Search{Term: value}, nil
	default:
		return nil, fmt.Errorf("%w: filter type %q", ErrUnsupported, string(kind))
	}
}

// AllProcessesLabel is the unfiltered entry of the process dropdown.
const AllProcessesLabel = "All processes (all versions)"

// ProcessOption is an entry of the process dropdown. The zero ID means all processes.
type ProcessOption struct {
	ID    string
	Label string
}

// ProcessOptions returns the dropdown entries: all processes first, then processes by
// name with the newest version first.
func ProcessOptions(processes []bpm.Process) []ProcessOption {
	sorted := make([]bpm.Process, len(processes))
	copy(sorted, processes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return newerVersion(sorted[i].Version, sorted[j].Version)
	})

	options := make([]ProcessOption, 0, len(sorted)+1)
	options = append(options, ProcessOption{Label: AllProcessesLabel})
	for _, p := range sorted {
		options = append(options, ProcessOption{ID: p.ID, Label: p.Label()})
	}
	return options
}

// ResolveProcessOption finds the option with the given label.
func ResolveProcessOption(options []ProcessOption, label string) (ProcessOption, error) {
	for _, opt := range options {
		if opt.Label == label {
			return opt, nil
		}
	}
	return ProcessOption{}, fmt.Errorf("%w: process %q", ErrUnsupported, label)
}

// newerVersion orders semantic versions descending and falls back to a reverse
// lexical order for versions that do not parse.
func newerVersion(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA == nil && errB == nil {
		return va.GreaterThan(vb)
	}
	return a > b
}
