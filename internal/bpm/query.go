package bpm

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bpmops/flowadmin/internal/pagination"
)

// API paths, relative to the engine base URL.
const (
	FlowNodePath = "API/bpm/flowNode"
	ProcessPath  = "API/bpm/process"
	LoginPath    = "loginservice"
)

// Query parameter names of the engine's search API.
const (
	paramCount  = "c"
	paramPage   = "p"
	paramFilter = "f"
	paramDeploy = "d"
	paramOrder  = "o"
	paramSearch = "s"
)

// Filter and deploy values used by the failed flow node list.
const (
	FilterStateFailed   = "state=failed"
	FilterProcessPrefix = "processId="
	FilterCasePrefix    = "caseId="
	DeployRootContainer = "rootContainerId"
	DeployAssignee      = "assigned_id"
)

// Sort fields accepted by the flow node endpoint.
const (
	SortFieldName           = "name"
	SortFieldLastUpdateDate = "lastUpdateDate"
	SortFieldDisplayName    = "displayName"
)

// Sort is an engine "o" parameter.
type Sort struct {
	Field string
	Order pagination.Order
}

// DefaultSort is the newest-failure-first order of the console.
var DefaultSort = Sort{Field: SortFieldLastUpdateDate, Order: pagination.OrderDesc} //nolint:gochecknoglobals // Immutable default.

// String returns "field ORDER".
func (s Sort) String() string {
	return s.Field + " " + string(s.Order)
}

// IsZero reports whether no sort is set.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// FlowNodeQuery is a failed flow node search.
type FlowNodeQuery struct {
	pagination.Params

	ProcessID string
	CaseID    string
	Search    string
	Sort      Sort
}

// Encode renders the query string in the engine's canonical parameter order:
// c, p, f=state=failed, d=rootContainerId, d=assigned_id, f=processId, f=caseId, o, s.
func (q FlowNodeQuery) Encode() string {
	var b queryBuilder
	b.add(paramCount, strconv.Itoa(q.Count))
	b.add(paramPage, strconv.Itoa(q.Page))
	b.add(paramFilter, FilterStateFailed)
	b.add(paramDeploy, DeployRootContainer)
	b.add(paramDeploy, DeployAssignee)
	if q.ProcessID != "" {
		b.add(paramFilter, FilterProcessPrefix+q.ProcessID)
	}
	if q.CaseID != "" {
		b.add(paramFilter, FilterCasePrefix+q.CaseID)
	}
	if !q.Sort.IsZero() {
		b.add(paramOrder, q.Sort.String())
	}
	if q.Search != "" {
		b.add(paramSearch, q.Search)
	}
	return b.String()
}

// WithParams returns a copy of q with another request window.
func (q FlowNodeQuery) WithParams(p pagination.Params) FlowNodeQuery {
	q.Params = p
	return q
}

// processListQuery is the "all processes" query behind the process filter.
func processListQuery() string {
	var b queryBuilder
	b.add(paramCount, "999")
	b.add(paramPage, "0")
	b.add(paramOrder, SortFieldDisplayName+" "+string(pagination.OrderAsc))
	return b.String()
}

// countQuery asks for a single item so that the Content-Range total can be read.
func countQuery(processID string) string {
	q := FlowNodeQuery{Params: pagination.Params{Count: 1}, ProcessID: processID}
	return q.Encode()
}

// queryBuilder keeps insertion order, which url.Values.Encode does not.
type queryBuilder struct {
	parts []string
}

func (b *queryBuilder) add(key, value string) {
	b.parts = append(b.parts, key+"="+escape(value))
}

func (b *queryBuilder) String() string {
	return strings.Join(b.parts, "&")
}

// escape query-escapes v but keeps '=' readable inside filter expressions.
func escape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "%3D", "=")
}
