package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// DefaultBarWidth is the number of cells in a progress bar
const DefaultBarWidth = 40

// ProgressBar redraws a single status line as files are generated. It is
// safe for concurrent use, since the build system reports from its workers.
type ProgressBar struct {
	mu    sync.Mutex
	w     io.Writer
	done  *color.Color
	left  *color.Color
	width int

	current, total int
	label          string
	noColor        bool
}

// NewProgressBar creates a bar of width cells; width <= 0 uses DefaultBarWidth
func NewProgressBar(w io.Writer, width int, noColor bool) *ProgressBar {
	if width <= 0 {
		width = DefaultBarWidth
	}
	done, left := color.New(color.FgCyan), color.New(color.FgHiBlack)
	if noColor {
		done.DisableColor()
		left.DisableColor()
	}
	return &ProgressBar{w: w, done: done, left: left, width: width, noColor: noColor}
}

// Update matches build.Options.ProgressFunc
func (p *ProgressBar) Update(current, total int, label string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current, p.total, p.label = min(current, total), total, label
	p.draw()
}

// Finish fills the bar, ends the line and prints message as a success line.
// A bar that never saw any work prints nothing.
func (p *ProgressBar) Finish(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current, p.label = p.total, ""
	p.draw()
	fmt.Fprintln(p.w)
	if message != "" {
		fmt.Fprintln(p.w, FormatSuccess(message, p.noColor))
	}
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	filled := p.width * p.current / p.total

	var line strings.Builder
	line.WriteString("\r[")
	p.done.Fprint(&line, strings.Repeat("█", filled))
	p.left.Fprint(&line, strings.Repeat("░", p.width-filled))
	fmt.Fprintf(&line, "] %3d%% (%d/%d)", 100*p.current/p.total, p.current, p.total)
	if p.label != "" {
		line.WriteString(" " + p.label)
	}
	// erase the tail of a longer previous label
	line.WriteString("\033[K")

	io.WriteString(p.w, line.String())
}
