package bpm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in        string
		want      Priority
		wantLabel string
		wantErr   bool
	}{
		{in: "", want: PriorityNone, wantLabel: "--"},
		{in: "lowest", want: PriorityLowest, wantLabel: "Lowest"},
		{in: "under_normal", want: PriorityLow, wantLabel: "Low"},
		{in: "normal", want: PriorityNormal, wantLabel: "Normal"},
		{in: "ABOVE_NORMAL", want: PriorityHigh, wantLabel: "High"},
		{in: "highest", want: PriorityHighest, wantLabel: "Highest"},
		{in: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPriority)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLabel, got.String())
		})
	}
}

func TestFlowNode_UnmarshalJSON(t *testing.T) {
	t.Run("deployed references", func(t *testing.T) {
		raw := `{
			"id": "60002",
			"name": "ALowScenario",
			"displayName": "ALowScenario display name",
			"type": "USER_TASK",
			"priority": "highest",
			"last_update_date": "2020-01-16 10:13:47.123",
			"caseId": "3001",
			"rootContainerId": {"id": "1", "name": "generateRandomCases", "displayName": "generateRandomCases display name", "version": "1.0"},
			"assigned_id": {"id": "4", "userName": "walter.bates", "firstname": "Walter", "lastname": "Bates"}
		}`

		var n FlowNode
		require.NoError(t, json.Unmarshal([]byte(raw), &n))

		assert.Equal(t, "60002", n.ID)
		assert.Equal(t, PriorityHighest, n.Priority)
		assert.Equal(t, time.Date(2020, time.January, 16, 10, 13, 47, 123000000, time.UTC), n.LastUpdateDate.Time)
		assert.Equal(t, "1/16/20 10:13 AM", n.LastUpdateDate.Format(FailedOnLayout))
		require.NotNil(t, n.Process)
		assert.Equal(t, "generateRandomCases (1.0)", n.Process.Label())
		require.NotNil(t, n.Assignee)
		assert.Equal(t, "walter.bates", n.Assignee.UserName)
	})

	t.Run("undeployed references", func(t *testing.T) {
		raw := `{"id": "1", "rootContainerId": "8617198282405797017", "assigned_id": "", "last_update_date": ""}`

		var n FlowNode
		require.NoError(t, json.Unmarshal([]byte(raw), &n))
		assert.Nil(t, n.Process)
		assert.Nil(t, n.Assignee)
		assert.True(t, n.LastUpdateDate.IsZero())
	})

	t.Run("unknown priority fails", func(t *testing.T) {
		var n FlowNode
		err := json.Unmarshal([]byte(`{"id": "1", "priority": "urgent"}`), &n)
		require.ErrorIs(t, err, ErrUnknownPriority)
	})

	t.Run("bad date fails", func(t *testing.T) {
		var n FlowNode
		err := json.Unmarshal([]byte(`{"id": "1", "last_update_date": "yesterday"}`), &n)
		require.Error(t, err)
	})
}

func TestFlowNode_MarshalRoundTrip(t *testing.T) {
	n := FlowNode{
		ID:             "7",
		Priority:       PriorityLow,
		LastUpdateDate: Timestamp{time.Date(2021, time.March, 2, 8, 5, 0, 0, time.UTC)},
		Process:        &Process{ID: "1", Name: "p", Version: "2.0"},
	}
	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"priority":"under_normal"`)
	assert.Contains(t, string(data), `"last_update_date":"2021-03-02 08:05:00.000"`)

	var back FlowNode
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, n, back)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "User task", TypeLabel("USER_TASK"))
	assert.Equal(t, "Automatic task", TypeLabel("AUTOMATIC_TASK"))
	assert.Equal(t, "Gateway", TypeLabel("GATEWAY"))
	assert.Equal(t, "--", TypeLabel(""))
}

func TestDetailsURL(t *testing.T) {
	assert.Equal(t,
		"/bonita/apps/APP_TOKEN_PLACEHOLDER/admin-task-details?id=60002",
		DetailsURL("/bonita/apps/APP_TOKEN_PLACEHOLDER/", "60002"))
	assert.Equal(t, DefaultAppPath+"/admin-task-details?id=1", DetailsURL("", "1"))
}
