// Package tui is the terminal console of flowadmin: output mode detection, shared
// styles and the interactive failed flow node list.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ViewState is the screen a model is showing.
type ViewState int

// View states.
const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateDetail
	ViewStateError
	ViewStateQuitting
)

// OutputMode is how results are written to the terminal.
type OutputMode int

// Output modes.
const (
	// OutputModePlain is uncolored text, used for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled is colored, non-interactive output.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea console.
	OutputModeInteractive
)

// Layout defaults.
const (
	defaultWidth         = 120
	defaultHeight        = 30
	minHeight            = 5
	filterInputCharLimit = 128
	filterInputWidth     = 40
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
	keySlash = "/"
	keyS     = "s"
	keyP     = "p"
	keyC     = "c"
	keyM     = "m"
	keyR     = "r"
)

// Palette.
var (
	ColorHeader    = lipgloss.Color("39")  //nolint:gochecknoglobals // Shared palette.
	ColorLabel     = lipgloss.Color("245") //nolint:gochecknoglobals // Shared palette.
	ColorValue     = lipgloss.Color("252") //nolint:gochecknoglobals // Shared palette.
	ColorMuted     = lipgloss.Color("240") //nolint:gochecknoglobals // Shared palette.
	ColorWarning   = lipgloss.Color("214") //nolint:gochecknoglobals // Shared palette.
	ColorError     = lipgloss.Color("196") //nolint:gochecknoglobals // Shared palette.
	ColorHighlight = lipgloss.Color("229") //nolint:gochecknoglobals // Shared palette.
	ColorSelected  = lipgloss.Color("57")  //nolint:gochecknoglobals // Shared palette.
	ColorSpinner   = lipgloss.Color("205") //nolint:gochecknoglobals // Shared palette.
)

// DetectOutputMode picks the output mode for stdout. plain wins over everything,
// then noColor; forceColor yields styled output even when stdout is not a terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	if plain {
		return OutputModePlain
	}
	if os.Getenv("NO_COLOR") != "" || noColor {
		return OutputModePlain
	}
	if os.Getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if !IsTTY() {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if os.Getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the stdout width, or the default when it cannot be read.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
