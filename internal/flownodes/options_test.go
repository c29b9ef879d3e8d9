package flownodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/pagination"
)

func TestSortOptions(t *testing.T) {
	tests := []struct {
		label string
		want  bpm.Sort
	}{
		{"Flow node name (Asc)", bpm.Sort{Field: "name", Order: pagination.OrderAsc}},
		{"Flow node name (Desc)", bpm.Sort{Field: "name", Order: pagination.OrderDesc}},
		{"Failed on (Newest first)", bpm.Sort{Field: "lastUpdateDate", Order: pagination.OrderDesc}},
		{"Failed on (Oldest first)", bpm.Sort{Field: "lastUpdateDate", Order: pagination.OrderAsc}},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			opt, err := ParseSortOption(tt.label)
			require.NoError(t, err)

			got, err := opt.Sort()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			back, err := SortOptionFor(got)
			require.NoError(t, err)
			assert.Equal(t, opt, back)
		})
	}

	assert.Len(t, SortOptions(), len(tests))
}

func TestSortOptions_Unsupported(t *testing.T) {
	_, err := ParseSortOption("Priority (Asc)")
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "unsupported case")

	_, err = SortOption("Case (Desc)").Sort()
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = SortOptionFor(bpm.Sort{Field: "priority", Order: pagination.OrderAsc})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestParseSortExpr(t *testing.T) {
	tests := []struct {
		expr    string
		want    SortOption
		wantErr bool
	}{
		{expr: "Failed on (Oldest first)", want: SortFailedOnOldest},
		{expr: "name", want: SortNameAsc},
		{expr: "name DESC", want: SortNameDesc},
		{expr: "lastUpdateDate+DESC", want: SortFailedOnNewest},
		{expr: "lastUpdateDate:asc", want: SortFailedOnOldest},
		{expr: "priority ASC", wantErr: true},
		{expr: "name SIDEWAYS", wantErr: true},
		{expr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSortExpr(tt.expr)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterAction(t *testing.T) {
	tests := []struct {
		kind  string
		value string
		want  Action
	}{
		{kind: "process", value: "8617198282405797017", want: SelectProcess{ProcessID: "8617198282405797017"}},
		{kind: "case", value: " 2001 ", want: FilterCase{CaseID: "2001"}},
		{kind: "Search", value: "Scenario", want: Search{Term: "Scenario"}},
		{kind: "search", value: "", want: Search{}},
	}

	for _, tt := range tests {
		t.Run(tt.kind+"="+tt.value, func(t *testing.T) {
			kind, err := ParseFilterKind(tt.kind)
			require.NoError(t, err)

			got, err := FilterAction(kind, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFilterKind("assignee")
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = FilterAction(FilterKind("priority"), "high")
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestProcessOptions(t *testing.T) {
	processes := []bpm.Process{
		{ID: "4", Name: "Vacation", Version: "1.9"},
		{ID: "1", Name: "generateRandomCases", Version: "1.0"},
		{ID: "5", Name: "Vacation", Version: "1.10"},
		{ID: "6", Name: "Vacation", Version: "2.0"},
		{ID: "7", Name: "Onboarding", Version: "beta"},
		{ID: "8", Name: "Onboarding", Version: "alpha"},
	}

	options := ProcessOptions(processes)
	labels := make([]string, 0, len(options))
	for _, opt := range options {
		labels = append(labels, opt.Label)
	}

	assert.Equal(t, []string{
		"All processes (all versions)",
		"Onboarding (beta)",
		"Onboarding (alpha)",
		"Vacation (2.0)",
		"Vacation (1.10)",
		"Vacation (1.9)",
		"generateRandomCases (1.0)",
	}, labels)
	assert.Empty(t, options[0].ID)

	opt, err := ResolveProcessOption(options, "Vacation (1.10)")
	require.NoError(t, err)
	assert.Equal(t, "5", opt.ID)

	_, err = ResolveProcessOption(options, "Vacation (3.0)")
	require.ErrorIs(t, err, ErrUnsupported)

	assert.Equal(t, "Vacation", processes[0].Name, "input slice must not be reordered")
}

func TestProcessOptions_Empty(t *testing.T) {
	options := ProcessOptions(nil)
	require.Len(t, options, 1)
	assert.Equal(t, AllProcessesLabel, options[0].Label)
}
