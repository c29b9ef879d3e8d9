package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bpmops/flowadmin/internal/flownodes"
)

// listChromeHeight is the number of lines around the rows: title, filters, header,
// count, load more, notice and help.
const listChromeHeight = 9

// Table column widths.
const (
	colWidthPriority = 8
	colWidthID       = 10
	colWidthName     = 28
	colWidthType     = 14
	colWidthFailedOn = 17
	colWidthCase     = 10
	colWidthProcess  = 30
)

// ellipsis marks truncated cells.
const ellipsis = "..."

const listHelp = "[/] Search  [c] Case  [p] Process  [s] Sort  [m] Load more  [r] Refresh  " +
	"[Esc] Clear filters  [Enter] Details  [q] Quit"

// truncate shortens s to width runes.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= len(ellipsis) {
		return string(r[:width])
	}
	return string(r[:width-len(ellipsis)]) + ellipsis
}

func formatRow(priority, id, name, typ, failedOn, caseID, process string) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %-*s  %-*s",
		colWidthPriority, truncate(priority, colWidthPriority),
		colWidthID, truncate(id, colWidthID),
		colWidthName, truncate(name, colWidthName),
		colWidthType, truncate(typ, colWidthType),
		colWidthFailedOn, truncate(failedOn, colWidthFailedOn),
		colWidthCase, truncate(caseID, colWidthCase),
		colWidthProcess, truncate(process, colWidthProcess),
	)
}

// renderRow formats one flow node for the list.
func renderRow(row flownodes.Row, selected bool) string {
	line := formatRow(row.Priority, row.ID, row.Name, row.Type, row.FailedOn, row.CaseID, row.Process)
	if selected {
		return lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(ColorSelected).
			Render(line)
	}
	return line
}

func renderHeader() string {
	header := formatRow("Priority", "ID", "Name", "Type", "Failed on", "Case ID", "Process")
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Render(header)
}

// View renders the current view.
func (m *FailedFlowNodesModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		if item := m.virtualList.GetSelectedItem(); item != nil {
			return RenderFlowNodeDetail(*item)
		}
		return m.renderListView()
	case ViewStateLoading, ViewStateList, ViewStateError:
		return m.renderListView()
	default:
		return ""
	}
}

func (m *FailedFlowNodesModel) renderListView() string {
	titleStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	sections := []string{
		titleStyle.Render("FAILED FLOW NODES"),
		m.renderFilters(),
	}

	switch {
	case m.list.Status == flownodes.StatusError:
		errStyle := lipgloss.NewStyle().Foreground(ColorError)
		sections = append(sections, errStyle.Render(fmt.Sprintf("Error: %v", m.list.Err)),
			mutedStyle.Render("[r] Retry"))
	case m.list.Status == flownodes.StatusLoading && m.list.Shown() == 0:
		sections = append(sections, RenderLoading(m.loading))
	case m.list.Status == flownodes.StatusEmpty:
		sections = append(sections, mutedStyle.Italic(true).Render(flownodes.EmptyMessage))
	default:
		sections = append(sections, renderHeader(), m.virtualList.View(), m.list.CountLabel())
		switch {
		case m.list.Status == flownodes.StatusLoading:
			sections = append(sections, RenderLoading(m.loading))
		case m.list.CanLoadMore():
			sections = append(sections, lipgloss.NewStyle().Foreground(ColorLabel).
				Render("[m] "+flownodes.LoadMoreLabel))
		}
	}

	if m.prompt != "" {
		sections = append(sections, promptLabel(m.prompt)+": "+m.textInput.View())
	}
	if m.notice != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(ColorWarning).Render(m.notice))
	}
	sections = append(sections, mutedStyle.Render(listHelp))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *FailedFlowNodesModel) renderFilters() string {
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	process := m.processLabel()
	if !m.list.ProcessFilterEnabled() {
		process += " (disabled)"
	}
	parts := []string{
		labelStyle.Render("Process: ") + valueStyle.Render(process),
		labelStyle.Render("Sort: ") + valueStyle.Render(string(m.list.Sort())),
	}
	if q := m.list.Query; q.Search != "" {
		parts = append(parts, labelStyle.Render("Search: ")+valueStyle.Render(q.Search))
	}
	if q := m.list.Query; q.CaseID != "" {
		parts = append(parts, labelStyle.Render("Case ID: ")+valueStyle.Render(q.CaseID))
	}
	return strings.Join(parts, "  ")
}

func promptLabel(kind flownodes.FilterKind) string {
	switch kind {
	case flownodes.FilterKindCase:
		return "Case ID"
	case flownodes.FilterKindSearch:
		return "Search"
	case flownodes.FilterKindProcess:
		return "Process"
	default:
		return string(kind)
	}
}

// RenderFlowNodeDetail renders every field of a row and its details link.
func RenderFlowNodeDetail(row flownodes.Row) string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	fields := []struct{ label, value string }{
		{"Priority", row.Priority},
		{"ID", row.ID},
		{"Name", row.Name},
		{"Display name", row.DisplayName},
		{"Type", row.Type},
		{"Failed on", row.FailedOn},
		{"Case ID", row.CaseID},
		{"Process name (version)", row.Process},
		{"Process display name", row.ProcessDisplayName},
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("FLOW NODE DETAIL"))
	sb.WriteString("\n\n")
	for _, f := range fields {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%-24s", f.label+":")))
		sb.WriteString(valueStyle.Render(f.value))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(labelStyle.Render(flownodes.DetailsLinkLabel + ": "))
	sb.WriteString(valueStyle.Render(row.DetailsURL))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("[Esc] Back to list  [q] Quit"))
	return sb.String()
}
