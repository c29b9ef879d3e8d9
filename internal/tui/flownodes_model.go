package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bpmops/flowadmin/internal/bpm"
	"github.com/bpmops/flowadmin/internal/flownodes"
	"github.com/bpmops/flowadmin/internal/logging"
	listview "github.com/bpmops/flowadmin/internal/tui/list"
)

// FlowNodeSource is what the console needs from the engine. *bpm.Client implements it.
type FlowNodeSource interface {
	flownodes.Source
	ListProcesses(ctx context.Context) ([]bpm.Process, error)
}

// flowNodesResultMsg carries the reducer action answering a fetch.
type flowNodesResultMsg struct {
	action flownodes.Action
}

type processesLoadedMsg struct {
	processes []bpm.Process
	err       error
}

// FailedFlowNodesModel is the Bubble Tea model of the failed flow node console.
type FailedFlowNodesModel struct {
	ctx context.Context
	src FlowNodeSource

	state ViewState
	list  flownodes.State
	rows  []flownodes.Row

	virtualList *listview.VirtualListModel[flownodes.Row]
	textInput   textinput.Model
	loading     *LoadingState

	// prompt is the filter being edited, empty when no prompt is open.
	prompt flownodes.FilterKind

	processOptions []flownodes.ProcessOption
	processIndex   int
	processErr     error

	width  int
	height int

	// notice is a one-line message shown under the list, such as a rejected action.
	notice string
}

// NewFailedFlowNodesModel creates the console. It starts loading on Init.
func NewFailedFlowNodesModel(
	ctx context.Context,
	src FlowNodeSource,
	opts flownodes.Options,
) (*FailedFlowNodesModel, error) {
	list, err := flownodes.New(opts)
	if err != nil {
		return nil, err
	}
	m := &FailedFlowNodesModel{
		ctx:            ctx,
		src:            src,
		state:          ViewStateLoading,
		list:           list,
		textInput:      newFilterInput(),
		loading:        NewLoadingState(),
		processOptions: flownodes.ProcessOptions(nil),
		width:          defaultWidth,
		height:         defaultHeight,
	}
	m.rebuildList()
	return m, nil
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

// List returns the current list state.
func (m *FailedFlowNodesModel) List() flownodes.State {
	return m.list
}

// Init loads the first page and, unless the list is case scoped, the process options.
func (m *FailedFlowNodesModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.dispatch(flownodes.Init{})}
	if m.list.ProcessFilterEnabled() {
		cmds = append(cmds, m.loadProcessesCmd())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m *FailedFlowNodesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildList()
		return m, nil
	case flowNodesResultMsg:
		return m, m.dispatch(msg.action)
	case processesLoadedMsg:
		m.handleProcessesLoaded(msg)
		return m, nil
	case spinner.TickMsg:
		if m.list.Status != flownodes.StatusLoading {
			return m, nil
		}
		return m, m.loading.Update(msg)
	}

	if m.prompt != "" {
		return m.handlePromptInput(msg)
	}

	switch m.state {
	case ViewStateDetail:
		return m.handleDetailUpdate(msg)
	case ViewStateQuitting:
		return m, nil
	case ViewStateLoading, ViewStateList, ViewStateError:
		return m.handleListUpdate(msg)
	default:
		return m, nil
	}
}

// dispatch runs an action through the reducer and returns the command for the fetch
// it issued, if any.
func (m *FailedFlowNodesModel) dispatch(a flownodes.Action) tea.Cmd {
	wasLoading := m.list.Status == flownodes.StatusLoading
	next, fetch, err := flownodes.Reduce(m.list, a)
	if err != nil {
		m.notice = noticeFor(err)
		return nil
	}
	m.list = next
	m.syncState()
	if fetch == nil {
		return nil
	}

	logging.FromContext(m.ctx).Debug().Ctx(m.ctx).
		Str("component", "tui").
		Uint64("seq", fetch.Seq).
		Str("query", fetch.Query.Encode()).
		Msg("fetching failed flow nodes")

	if wasLoading {
		return m.fetchCmd(fetch)
	}
	return tea.Batch(m.loading.Init(), m.fetchCmd(fetch))
}

func (m *FailedFlowNodesModel) fetchCmd(f *flownodes.Fetch) tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		return flowNodesResultMsg{action: flownodes.Run(ctx, src, f)}
	}
}

func (m *FailedFlowNodesModel) loadProcessesCmd() tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		processes, err := src.ListProcesses(ctx)
		return processesLoadedMsg{processes: processes, err: err}
	}
}

func (m *FailedFlowNodesModel) handleProcessesLoaded(msg processesLoadedMsg) {
	if msg.err != nil {
		m.processErr = msg.err
		m.notice = "process filter unavailable: " + msg.err.Error()
		return
	}
	m.processErr = nil
	m.processOptions = flownodes.ProcessOptions(msg.processes)
	m.processIndex = 0
	for i, opt := range m.processOptions {
		if opt.ID == m.list.Query.ProcessID {
			m.processIndex = i
		}
	}
}

// syncState derives the view state and rows from the list after every reduction.
func (m *FailedFlowNodesModel) syncState() {
	switch m.list.Status {
	case flownodes.StatusError:
		m.state = ViewStateError
	case flownodes.StatusLoading:
		if m.list.Shown() == 0 {
			m.state = ViewStateLoading
		}
	case flownodes.StatusIdle, flownodes.StatusLoaded, flownodes.StatusEmpty:
		if m.state != ViewStateDetail {
			m.state = ViewStateList
		}
	}
	m.rows = m.list.Rows()
	if m.virtualList != nil {
		m.virtualList.SetItems(m.rows)
	}
}

func (m *FailedFlowNodesModel) handleListUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.notice = ""
	switch keyMsg.String() {
	case keyQuit, keyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case keyEnter:
		if m.virtualList.GetSelectedItem() != nil {
			m.state = ViewStateDetail
		}
		return m, nil
	case keySlash:
		return m, m.openPrompt(flownodes.FilterKindSearch, m.list.Query.Search)
	case keyC:
		return m, m.openPrompt(flownodes.FilterKindCase, m.list.Query.CaseID)
	case keyS:
		return m, m.dispatch(flownodes.SelectSort{Option: m.nextSort()})
	case keyP:
		return m, m.cycleProcess()
	case keyM:
		return m, m.dispatch(flownodes.LoadMore{})
	case keyR:
		return m, m.dispatch(flownodes.Refresh{})
	case keyEsc:
		return m, m.eraseFilters()
	}

	updated, cmd := m.virtualList.Update(msg)
	if vl, ok := updated.(*listview.VirtualListModel[flownodes.Row]); ok {
		m.virtualList = vl
	}
	return m, cmd
}

func (m *FailedFlowNodesModel) handleDetailUpdate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyQuit, keyCtrlC:
			m.state = ViewStateQuitting
			return m, tea.Quit
		case keyEsc, keyEnter:
			m.state = ViewStateList
			m.syncState()
			return m, nil
		}
	}
	return m, nil
}

func (m *FailedFlowNodesModel) openPrompt(kind flownodes.FilterKind, value string) tea.Cmd {
	m.prompt = kind
	m.textInput.Placeholder = promptPlaceholder(kind)
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
	return m.textInput.Focus()
}

func (m *FailedFlowNodesModel) handlePromptInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case keyEsc:
			m.closePrompt()
			return m, nil
		case keyEnter:
			kind, value := m.prompt, m.textInput.Value()
			m.closePrompt()
			action, err := flownodes.FilterAction(kind, value)
			if err != nil {
				m.notice = noticeFor(err)
				return m, nil
			}
			return m, m.dispatch(action)
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *FailedFlowNodesModel) closePrompt() {
	m.prompt = ""
	m.textInput.Blur()
}

// eraseFilters clears the search and case filters that are set, issuing one fetch.
func (m *FailedFlowNodesModel) eraseFilters() tea.Cmd {
	q := m.list.Query
	if q.Search == "" && (q.CaseID == "" || m.list.CaseScoped()) {
		return nil
	}
	if q.Search != "" && q.CaseID != "" && !m.list.CaseScoped() {
		next, _, err := flownodes.Reduce(m.list, flownodes.Search{})
		if err == nil {
			m.list = next
		}
		return m.dispatch(flownodes.FilterCase{})
	}
	if q.Search != "" {
		return m.dispatch(flownodes.Search{})
	}
	return m.dispatch(flownodes.FilterCase{})
}

func (m *FailedFlowNodesModel) nextSort() flownodes.SortOption {
	options := flownodes.SortOptions()
	current := m.list.Sort()
	for i, opt := range options {
		if opt == current {
			return options[(i+1)%len(options)]
		}
	}
	return flownodes.DefaultSortOption
}

func (m *FailedFlowNodesModel) cycleProcess() tea.Cmd {
	if !m.list.ProcessFilterEnabled() {
		m.notice = noticeFor(flownodes.ErrProcessFilterDisabled)
		return nil
	}
	if len(m.processOptions) <= 1 {
		if m.processErr != nil {
			return m.loadProcessesCmd()
		}
		m.notice = "no process to filter on"
		return nil
	}
	m.processIndex = (m.processIndex + 1) % len(m.processOptions)
	return m.dispatch(flownodes.SelectProcess{ProcessID: m.processOptions[m.processIndex].ID})
}

func (m *FailedFlowNodesModel) processLabel() string {
	if m.processIndex < len(m.processOptions) {
		return m.processOptions[m.processIndex].Label
	}
	return flownodes.AllProcessesLabel
}

// rebuildList recreates the virtual list for the current size, keeping the selection.
func (m *FailedFlowNodesModel) rebuildList() {
	selected := 0
	if m.virtualList != nil {
		selected = m.virtualList.Selected()
	}
	height := max(m.height-listChromeHeight, minHeight)
	m.virtualList = listview.NewVirtualListModel(m.rows, height, m.width, renderRow)
	m.virtualList.SetSelected(selected)
}

// Err returns the fetch error that ended the session, if any.
func (m *FailedFlowNodesModel) Err() error {
	if m.list.Status == flownodes.StatusError {
		return m.list.Err
	}
	return nil
}

func noticeFor(err error) string {
	switch {
	case errors.Is(err, flownodes.ErrProcessFilterDisabled):
		return "process filter is disabled for a single case"
	case errors.Is(err, flownodes.ErrUnsupported):
		return fmt.Sprintf("not supported: %v", err)
	default:
		return err.Error()
	}
}

func promptPlaceholder(kind flownodes.FilterKind) string {
	switch kind {
	case flownodes.FilterKindCase:
		return "Case ID"
	case flownodes.FilterKindSearch:
		return "Search flow nodes"
	case flownodes.FilterKindProcess:
		return "Process ID"
	default:
		return ""
	}
}

// Run starts the console on the terminal and blocks until the user quits.
func Run(ctx context.Context, m *FailedFlowNodesModel) error {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
