package bpm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bpmops/flowadmin/internal/pagination"
)

func TestFlowNodeQuery_Encode(t *testing.T) {
	first := pagination.Params{Count: 20, Page: 0}

	tests := []struct {
		name  string
		query FlowNodeQuery
		want  string
	}{
		{
			name:  "default list",
			query: FlowNodeQuery{Params: first, Sort: DefaultSort},
			want:  "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=lastUpdateDate+DESC",
		},
		{
			name:  "process filter",
			query: FlowNodeQuery{Params: first, ProcessID: "7623202965572839246", Sort: DefaultSort},
			want:  "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=processId=7623202965572839246&o=lastUpdateDate+DESC",
		},
		{
			name:  "case filter",
			query: FlowNodeQuery{Params: first, CaseID: "2001", Sort: DefaultSort},
			want:  "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=caseId=2001&o=lastUpdateDate+DESC",
		},
		{
			name:  "search with spaces",
			query: FlowNodeQuery{Params: first, Search: "Search term with no match", Sort: DefaultSort},
			want:  "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=lastUpdateDate+DESC&s=Search+term+with+no+match",
		},
		{
			name: "continuation page sorted by name",
			query: FlowNodeQuery{
				Params: pagination.Params{Count: 10, Page: 2},
				Sort:   Sort{Field: SortFieldName, Order: pagination.OrderDesc},
			},
			want: "c=10&p=2&f=state=failed&d=rootContainerId&d=assigned_id&o=name+DESC",
		},
		{
			name:  "no sort",
			query: FlowNodeQuery{Params: first},
			want:  "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Encode())
		})
	}
}

func TestFlowNodeQuery_WithParams(t *testing.T) {
	q := FlowNodeQuery{Params: pagination.Params{Count: 20}, ProcessID: "1", Sort: DefaultSort}
	next := q.WithParams(pagination.Params{Count: 10, Page: 2})

	assert.Equal(t, 20, q.Count)
	assert.Equal(t, 10, next.Count)
	assert.Equal(t, 2, next.Page)
	assert.Equal(t, q.ProcessID, next.ProcessID)
	assert.Equal(t, q.Sort, next.Sort)
}

func TestProcessListQuery(t *testing.T) {
	assert.Equal(t, "c=999&p=0&o=displayName+ASC", processListQuery())
}

func TestCountQuery(t *testing.T) {
	assert.Equal(t, "c=1&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=processId=42", countQuery("42"))
}
