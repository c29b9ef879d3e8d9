package flownodes

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
	"github.com/bpmops/flowadmin/internal/testutil/fakebpm"
)

func newState(t *testing.T, opts Options) State {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	return s
}

func reduce(t *testing.T, s State, a Action) (State, *Fetch) {
	t.Helper()
	next, fetch, err := Reduce(s, a)
	require.NoError(t, err)
	return next, fetch
}

// answer feeds items back as the response to f.
func answer(t *testing.T, s State, f *Fetch, items []bpm.FlowNode) State {
	t.Helper()
	require.NotNil(t, f)
	next, fetch := reduce(t, s, Loaded{Seq: f.Seq, Items: items})
	assert.Nil(t, fetch)
	return next
}

func TestNew(t *testing.T) {
	s := newState(t, Options{})
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, pagination.DefaultPolicy(), s.Policy())
	assert.Equal(t, bpm.DefaultAppPath, s.AppPath())
	assert.Equal(t, bpm.DefaultSort, s.Query.Sort)
	assert.Equal(t, SortFailedOnNewest, s.Sort())
	assert.True(t, s.ProcessFilterEnabled())
	assert.False(t, s.CanLoadMore())
	assert.Nil(t, s.Pending())

	_, err := New(Options{Policy: pagination.Policy{PageSize: 25, LoadMoreSize: 10}})
	require.ErrorIs(t, err, pagination.ErrUnalignedPageSize)

	_, err = New(Options{Sort: bpm.Sort{Field: "priority", Order: pagination.OrderAsc}})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestReduce_Init(t *testing.T) {
	s := newState(t, Options{})

	s, fetch := reduce(t, s, Init{})
	require.NotNil(t, fetch)
	assert.Equal(t, StatusLoading, s.Status)
	assert.Equal(t, uint64(1), fetch.Seq)
	assert.False(t, fetch.Append)
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=lastUpdateDate+DESC", fetch.Query.Encode())

	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes5))
	assert.Equal(t, StatusLoaded, s.Status)
	assert.Equal(t, 5, s.Shown())
	assert.Equal(t, "Failed flow nodes shown: 5", s.CountLabel())
	assert.True(t, s.Exhausted, "a short first page ends the list")
	assert.False(t, s.CanLoadMore())
}

func TestReduce_InitialFilters(t *testing.T) {
	s := newState(t, Options{ProcessID: " 42 ", Search: "Scenario"})

	s, fetch := reduce(t, s, Init{})
	require.NotNil(t, fetch)
	assert.Equal(t, "42", s.Query.ProcessID)
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=processId=42&o=lastUpdateDate+DESC&s=Scenario",
		fetch.Query.Encode())

	s, fetch = reduce(t, s, Search{})
	require.NotNil(t, fetch)
	assert.Empty(t, s.Query.Search)
	assert.Equal(t, "42", s.Query.ProcessID)

	_, err := New(Options{CaseID: "1", ProcessID: "42"})
	require.ErrorIs(t, err, ErrProcessFilterDisabled)
}

func TestReduce_FiltersResetToFirstPage(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})
	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))
	s, fetch = reduce(t, s, LoadMore{})
	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes10))
	require.Equal(t, 30, s.Shown())

	s, fetch = reduce(t, s, Search{Term: "  Scenario "})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=lastUpdateDate+DESC&s=Scenario", fetch.Query.Encode())
	assert.Empty(t, s.Items)

	s, fetch = reduce(t, s, SelectSort{Option: SortNameAsc})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=name+ASC&s=Scenario", fetch.Query.Encode())

	s, fetch = reduce(t, s, SelectProcess{ProcessID: "8617198282405797017"})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=processId=8617198282405797017&o=name+ASC&s=Scenario", fetch.Query.Encode())

	s, fetch = reduce(t, s, FilterCase{CaseID: "2001"})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=processId=8617198282405797017&f=caseId=2001&o=name+ASC&s=Scenario", fetch.Query.Encode())

	s, fetch = reduce(t, s, Search{})
	s, fetch = reduce(t, s, FilterCase{})
	_, fetch = reduce(t, s, SelectProcess{})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=name+ASC", fetch.Query.Encode())
}

func TestReduce_LoadMoreSequence(t *testing.T) {
	pages := [][]bpm.FlowNode{
		fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20),
		fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes10),
		fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes5),
		{},
	}

	tests := []struct {
		name         string
		stopOnShort  bool
		wantRequests []string
	}{
		{
			name:         "stop on short page",
			stopOnShort:  true,
			wantRequests: []string{"c=20&p=0", "c=10&p=2", "c=10&p=3"},
		},
		{
			name:         "stop on empty page",
			stopOnShort:  false,
			wantRequests: []string{"c=20&p=0", "c=10&p=2", "c=10&p=3", "c=10&p=4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := pagination.DefaultPolicy()
			policy.StopOnShortPage = tt.stopOnShort
			s := newState(t, Options{Policy: policy})

			var requests []string
			s, fetch := reduce(t, s, Init{})
			for i := 0; fetch != nil; i++ {
				requests = append(requests, windowOf(fetch.Query.Params))
				require.Less(t, i, len(pages))
				s = answer(t, s, fetch, pages[i])
				s, fetch = reduce(t, s, LoadMore{})
			}

			assert.Equal(t, tt.wantRequests, requests)
			assert.Equal(t, 35, s.Shown())
			assert.Equal(t, "Failed flow nodes shown: 35", s.CountLabel())
			assert.Equal(t, StatusLoaded, s.Status)
			assert.False(t, s.CanLoadMore())
			assert.Equal(t, "70001", s.Items[0].ID)
			assert.Equal(t, "71001", s.Items[20].ID)
			assert.Equal(t, "60002", s.Items[30].ID)
		})
	}
}

func windowOf(p pagination.Params) string {
	return "c=" + strconv.Itoa(p.Count) + "&p=" + strconv.Itoa(p.Page)
}

func TestReduce_LoadMoreIsSequential(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})

	blocked, none := reduce(t, s, LoadMore{})
	assert.Nil(t, none, "no load-more while the first page is in flight")
	assert.Equal(t, s.Seq(), blocked.Seq())

	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))
	s, first := reduce(t, s, LoadMore{})
	require.NotNil(t, first)
	assert.True(t, first.Append)

	_, second := reduce(t, s, LoadMore{})
	assert.Nil(t, second, "no second load-more while one is in flight")
}

func TestReduce_StaleResponsesAreDiscarded(t *testing.T) {
	s := newState(t, Options{})
	s, first := reduce(t, s, Init{})
	s, second := reduce(t, s, FilterCase{CaseID: "3001"})
	require.Greater(t, second.Seq, first.Seq)

	s, _ = reduce(t, s, Loaded{Seq: first.Seq, Items: fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20)})
	assert.Equal(t, StatusLoading, s.Status, "the stale page must not land")
	assert.Empty(t, s.Items)

	s, _ = reduce(t, s, Failed{Seq: first.Seq, Err: errors.New("boom")})
	assert.Equal(t, StatusLoading, s.Status)
	assert.NoError(t, s.Err)

	s = answer(t, s, second, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes5))
	assert.Equal(t, 5, s.Shown())

	again, _ := reduce(t, s, Loaded{Seq: second.Seq, Items: fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20)})
	assert.Equal(t, 5, again.Shown(), "a response is applied once")
}

func TestReduce_Failure(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})

	boom := errors.New("engine down")
	s, next := reduce(t, s, Failed{Seq: fetch.Seq, Err: boom})
	assert.Nil(t, next, "failures are not retried")
	assert.Equal(t, StatusError, s.Status)
	require.ErrorIs(t, s.Err, boom)
	assert.False(t, s.CanLoadMore())

	s, fetch = reduce(t, s, Refresh{})
	require.NotNil(t, fetch)
	assert.NoError(t, s.Err)
	assert.Equal(t, StatusLoading, s.Status)
}

func TestReduce_Empty(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})
	s = answer(t, s, fetch, []bpm.FlowNode{})

	assert.Equal(t, StatusEmpty, s.Status)
	assert.Empty(t, s.Rows())
	assert.False(t, s.CanLoadMore())
	assert.Equal(t, "Failed flow nodes shown: 0", s.CountLabel())
}

func TestReduce_RangeTotalEndsList(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})
	s, _ = reduce(t, s, Loaded{
		Seq:     fetch.Seq,
		Items:   fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20),
		Range:   pagination.Range{Page: 0, Size: 20, Total: 20},
		RangeOK: true,
	})

	assert.False(t, s.Exhausted)
	assert.False(t, s.CanLoadMore())
	assert.Equal(t, pagination.Meta{Shown: 20, Total: 20, HasMore: false}, s.Meta())
}

func TestReduce_CaseScoped(t *testing.T) {
	s := newState(t, Options{CaseID: "3001"})
	assert.False(t, s.ProcessFilterEnabled())
	assert.True(t, s.CaseScoped())

	s, fetch := reduce(t, s, Init{})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&f=caseId=3001&o=lastUpdateDate+DESC", fetch.Query.Encode())

	_, none, err := Reduce(s, SelectProcess{ProcessID: "8617198282405797017"})
	require.ErrorIs(t, err, ErrProcessFilterDisabled)
	assert.Nil(t, none)
}

func TestReduce_RefreshKeepsFilters(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})
	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))
	s, fetch = reduce(t, s, Search{Term: "Step"})
	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))
	s, fetch = reduce(t, s, LoadMore{})
	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes10))

	s, fetch = reduce(t, s, Refresh{})
	assert.Equal(t, "c=20&p=0&f=state=failed&d=rootContainerId&d=assigned_id&o=lastUpdateDate+DESC&s=Step", fetch.Query.Encode())
	assert.Empty(t, s.Items)

	s = answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))
	_, fetch = reduce(t, s, LoadMore{})
	assert.Equal(t, pagination.Params{Count: 10, Page: 2}, fetch.Query.Params, "continuations restart after a refresh")
}

type unknownAction struct{}

func (unknownAction) isAction() {}

func TestReduce_Unsupported(t *testing.T) {
	s := newState(t, Options{})

	_, _, err := Reduce(s, unknownAction{})
	require.ErrorIs(t, err, ErrUnsupported)

	_, _, err = Reduce(s, SelectSort{Option: "Case id (Asc)"})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	s := newState(t, Options{})
	s, fetch := reduce(t, s, Init{})
	loaded := answer(t, s, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes20))

	more, fetch := reduce(t, loaded, LoadMore{})
	_ = answer(t, more, fetch, fakebpm.FlowNodes(t, fakebpm.FailedFlowNodes10))

	assert.Equal(t, 20, loaded.Shown())
	assert.Equal(t, StatusLoaded, loaded.Status)
}
