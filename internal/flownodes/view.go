package flownodes

import (
	"fmt"

	"github.com/bpmops/flowadmin/internal/bpm"
)

// Console labels.
const (
	CountLabelFormat = "Failed flow nodes shown: %d"
	EmptyMessage     = "No failed flow nodes to display"
	LoadMoreLabel    = "Load more flow nodes"
	DetailsLinkLabel = "View task details"
	missingValue     = "--"
)

// Row is the rendered form of a list item.
type Row struct {
	Priority           string `json:"priority"`
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"displayName"`
	Type               string `json:"type"`
	FailedOn           string `json:"failedOn"`
	CaseID             string `json:"caseId"`
	Process            string `json:"process"`
	ProcessDisplayName string `json:"processDisplayName"`
	DetailsURL         string `json:"detailsUrl"`
}

// NewRow projects a flow node.
func NewRow(n bpm.FlowNode, appPath string) Row {
	row := Row{
		Priority:           n.Priority.String(),
		ID:                 n.ID,
		Name:               n.Name,
		DisplayName:        n.DisplayName,
		Type:               bpm.TypeLabel(n.Type),
		FailedOn:           missingValue,
		CaseID:             n.CaseID,
		Process:            missingValue,
		ProcessDisplayName: missingValue,
		DetailsURL:         bpm.DetailsURL(appPath, n.ID),
	}
	if !n.LastUpdateDate.IsZero() {
		row.FailedOn = n.LastUpdateDate.Format(bpm.FailedOnLayout)
	}
	if n.Process != nil {
		row.Process = n.Process.Label()
		row.ProcessDisplayName = n.Process.DisplayName
	}
	return row
}

// Rows projects every materialized item.
func (s State) Rows() []Row {
	rows := make([]Row, 0, len(s.Items))
	for _, n := range s.Items {
		rows = append(rows, NewRow(n, s.appPath))
	}
	return rows
}

// CountLabel is the "shown" label. It counts materialized items, never the server total.
func (s State) CountLabel() string {
	return fmt.Sprintf(CountLabelFormat, s.Shown())
}
