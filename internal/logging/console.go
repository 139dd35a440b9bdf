package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Level is an enumerated message severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger is the minimal logging contract threaded through the tool. The
// console implementation below is the only production implementation; tests
// substitute their own.
type Logger interface {
	Log(level Level, msg string)
}

// DefaultVerbosity prints errors, warnings and info messages. Each -v adds
// one level (debug, then trace); --quiet silences everything.
const DefaultVerbosity = 3

var (
	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	errStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	debugStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Console writes leveled messages to a pair of streams. Info and below-info
// chatter goes to Out, warnings and errors to ErrOut.
type Console struct {
	verbosity int
	out       io.Writer
	errOut    io.Writer
	color     bool
}

// New builds a console logger from the quiet/verbose flags.
func New(quiet bool, verbose int) *Console {
	verbosity := DefaultVerbosity
	if quiet {
		verbosity = 0
	}
	verbosity += verbose

	return &Console{
		verbosity: verbosity,
		out:       os.Stdout,
		errOut:    os.Stderr,
		color:     isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// NewWithWriters is New with explicit streams and no color, for tests.
func NewWithWriters(quiet bool, verbose int, out, errOut io.Writer) *Console {
	c := New(quiet, verbose)
	c.out = out
	c.errOut = errOut
	c.color = false
	return c
}

// Verbosity returns the effective verbosity value.
func (c *Console) Verbosity() int {
	return c.verbosity
}

// Echo reports whether subprocess output should be relayed live to the
// console. Quiet mode and reduced verbosity suppress the echo; captured
// output is unaffected.
func (c *Console) Echo() bool {
	return c.verbosity >= DefaultVerbosity
}

// Log prints msg if the console verbosity admits the given level.
func (c *Console) Log(level Level, msg string) {
	switch level {
	case LevelError:
		if c.verbosity > 0 {
			fmt.Fprintln(c.errOut, c.render(errStyle, "ERROR"), msg)
		}
	case LevelWarn:
		if c.verbosity > 1 {
			fmt.Fprintln(c.errOut, c.render(warnStyle, "WARN"), msg)
		}
	case LevelInfo:
		if c.verbosity > 2 {
			fmt.Fprintln(c.out, msg)
		}
	case LevelDebug:
		if c.verbosity > 3 {
			fmt.Fprintln(c.out, c.render(debugStyle, "DEBUG"), msg)
		}
	case LevelTrace:
		if c.verbosity > 4 {
			fmt.Fprintln(c.out, c.render(debugStyle, "TRACE"), msg)
		}
	}
}

func (c *Console) render(style lipgloss.Style, label string) string {
	if !c.color {
		return label
	}
	return style.Render(label)
}

func (c *Console) Errorf(format string, a ...any) {
	c.Log(LevelError, fmt.Sprintf(format, a...))
}

func (c *Console) Warnf(format string, a ...any) {
	c.Log(LevelWarn, fmt.Sprintf(format, a...))
}

func (c *Console) Infof(format string, a ...any) {
	c.Log(LevelInfo, fmt.Sprintf(format, a...))
}

func (c *Console) Debugf(format string, a ...any) {
	c.Log(LevelDebug, fmt.Sprintf(format, a...))
}

func (c *Console) Tracef(format string, a ...any) {
	c.Log(LevelTrace, fmt.Sprintf(format, a...))
}
