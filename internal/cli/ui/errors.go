package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a framed CLI message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

type levelStyle struct {
	symbol string
	header []color.Attribute
	body   []color.Attribute
}

var levelStyles = map[Level]levelStyle{
	LevelError:   {"❌", []color.Attribute{color.FgRed, color.Bold}, []color.Attribute{color.FgRed}},
	LevelWarning: {"⚠️", []color.Attribute{color.FgYellow, color.Bold}, []color.Attribute{color.FgYellow}},
	LevelInfo:    {"ℹ️", []color.Attribute{color.FgCyan, color.Bold}, []color.Attribute{color.FgCyan}},
}

// Message is a framed CLI message. Title is an upper-cased headline; when it
// is empty Text becomes the headline.
//
//	❌ CONTAINER NOT FOUND
//	   Cannot find container 'Shap'.
//
//	   Did you mean: Shape?
//
//	   → List containers: propkit inspect
type Message struct {
	Level       Level
	Title       string
	Text        string
	Detail      string
	Suggestions []string
	Commands    []string
	NoColor     bool
}

func (m Message) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if m.NoColor {
		c.DisableColor()
	}
	return c
}

// String renders the message
func (m Message) String() string {
	st, ok := levelStyles[m.Level]
	if !ok {
		st = levelStyles[LevelError]
	}
	header, body := m.paint(st.header...), m.paint(st.body...)

	var b strings.Builder
	if m.Title != "" {
		header.Fprintf(&b, "%s %s\n", st.symbol, strings.ToUpper(m.Title))
		if m.Text != "" {
			body.Fprintf(&b, "   %s\n", m.Text)
		}
	} else {
		header.Fprintf(&b, "%s %s\n", st.symbol, m.Text)
	}

	if m.Detail != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", m.Detail)
	}
	if len(m.Suggestions) > 0 {
		b.WriteString("\n")
		m.paint(color.FgYellow).Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}
	if len(m.Commands) > 0 {
		b.WriteString("\n")
		cyan := m.paint(color.FgCyan)
		for _, cmd := range m.Commands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}
	return b.String()
}

// WriteTo writes the rendered message to w
func (m Message) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.String())
	return int64(n), err
}

// FormatSuccess renders a one-line success message
func FormatSuccess(message string, noColor bool) string {
	return Message{NoColor: noColor}.paint(color.FgGreen, color.Bold).Sprintf("✓ %s", message)
}

// WriteSuccess writes a success line to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// ContainerNotFoundError reports an unknown container name given to inspect
func ContainerNotFoundError(name string, suggestions []string, noColor bool) string {
	return Message{
		Title:       "container not found",
		Text:        fmt.Sprintf("Cannot find container '%s'.", name),
		Suggestions: suggestions,
		Commands:    []string{"List containers: propkit inspect", "Get help: propkit inspect --help"},
		NoColor:     noColor,
	}.String()
}

// DiagnosticsError reports a run that produced error diagnostics
func DiagnosticsError(errCount, noteCount int, noColor bool) string {
	return Message{
		Title:    "check failed",
		Text:     fmt.Sprintf("%d error(s), %d note(s).", errCount, noteCount),
		Detail:   "Types with errors are not emitted until the annotations are fixed.",
		Commands: []string{"Re-run diagnostics: propkit check"},
		NoColor:  noColor,
	}.String()
}

// GenerateError reports an infrastructure failure while generating
func GenerateError(message string, suggestions []string, noColor bool) string {
	return Message{
		Title:       "generate failed",
		Text:        message,
		Suggestions: suggestions,
		Commands:    []string{"Get help: propkit generate --help"},
		NoColor:     noColor,
	}.String()
}

// OverwriteError reports an output path held by a file propkit did not write
func OverwriteError(message string, noColor bool) string {
	return Message{
		Title:    "generate failed",
		Text:     message,
		Detail:   "Rename the file or confirm the overwrite.",
		Commands: []string{"Confirm overwrites: propkit generate --interactive", "Get help: propkit generate --help"},
		NoColor:  noColor,
	}.String()
}

// ConfigError reports an invalid propkit.yml or environment override
func ConfigError(message string, noColor bool) string {
	return Message{
		Title:    "configuration error",
		Text:     message,
		Commands: []string{"View config: cat propkit.yml", "Get help: propkit --help"},
		NoColor:  noColor,
	}.String()
}

// Info renders an informational headline
func Info(message string, noColor bool) string {
	return Message{Level: LevelInfo, Text: message, NoColor: noColor}.String()
}
