package bpm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownPriority is returned when the engine sends a priority outside the known set.
var ErrUnknownPriority = errors.New("unknown flow node priority")

// Priority is the priority of a flow node.
type Priority int

// Priorities, lowest first. PriorityNone is rendered as "--".
const (
	PriorityNone Priority = iota
	PriorityLowest
	PriorityLow
	PriorityNormal
	PriorityHigh
	PriorityHighest
)

// ParsePriority decodes the engine's priority value.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PriorityNone, nil
	case "lowest":
		return PriorityLowest, nil
	case "under_normal":
		return PriorityLow, nil
	case "normal":
		return PriorityNormal, nil
	case "above_normal":
		return PriorityHigh, nil
	case "highest":
		return PriorityHighest, nil
	default:
		return PriorityNone, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// String returns the console label.
func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "Lowest"
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	case PriorityHighest:
		return "Highest"
	case PriorityNone:
		return "--"
	default:
		return "--"
	}
}

// engineValue is the inverse of ParsePriority.
func (p Priority) engineValue() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "under_normal"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "above_normal"
	case PriorityHighest:
		return "highest"
	case PriorityNone:
		return ""
	default:
		return ""
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePriority(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.engineValue())
}

// engineTimeLayout is the engine's date format ("2020-01-16 10:13:47.123").
const engineTimeLayout = "2006-01-02 15:04:05.000"

// FailedOnLayout is the console format of the failed-on column ("1/16/20 10:13 AM").
const FailedOnLayout = "1/2/06 3:04 PM"

// Timestamp is an engine date. The zero value marshals as "".
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(engineTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid engine date %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.Format(engineTimeLayout))
}

// Process is a deployed process definition.
type Process struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Version     string `json:"version"`
}

// Label returns "name (version)".
func (p Process) Label() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Version)
}

// User is the deployed assigned_id of a flow node.
type User struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// FlowNode is one row of the failed flow node list.
type FlowNode struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DisplayName    string    `json:"displayName"`
	Type           string    `json:"type"`
	State          string    `json:"state"`
	Priority       Priority  `json:"priority"`
	LastUpdateDate Timestamp `json:"last_update_date"`
	CaseID         string    `json:"caseId"`
	RootCaseID     string    `json:"rootCaseId"`
	ProcessID      string    `json:"processId"`

	// Process is the deployed rootContainerId.
	Process *Process `json:"rootContainerId,omitempty"`

	// Assignee is the deployed assigned_id; nil when unassigned.
	Assignee *User `json:"assigned_id,omitempty"`
}

// UnmarshalJSON tolerates undeployed references, which the engine sends as plain ids
// (or "" when unassigned) instead of objects.
func (n *FlowNode) UnmarshalJSON(data []byte) error {
	type alias FlowNode
	aux := struct {
		*alias

		Process  json.RawMessage `json:"rootContainerId"`
		Assignee json.RawMessage `json:"assigned_id"`
	}{alias: (*alias)(n)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	n.Process = nil
	if isObject(aux.Process) {
		n.Process = &Process{}
		if err := json.Unmarshal(aux.Process, n.Process); err != nil {
			return fmt.Errorf("rootContainerId: %w", err)
		}
	}

	n.Assignee = nil
	if isObject(aux.Assignee) {
		n.Assignee = &User{}
		if err := json.Unmarshal(aux.Assignee, n.Assignee); err != nil {
			return fmt.Errorf("assigned_id: %w", err)
		}
	}
	return nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "{")
}

// TypeLabel turns an engine type such as "USER_TASK" into "User task".
func TypeLabel(engineType string) string {
	if engineType == "" {
		return "--"
	}
	words := strings.Split(strings.ToLower(engineType), "_")
	label := strings.Join(words, " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
