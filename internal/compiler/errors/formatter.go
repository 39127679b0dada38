package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatDiagnostic returns a human-readable message for terminal output
func FormatDiagnostic(d *Diagnostic) string {
	var b strings.Builder

	file := d.Location.File
	if file == "" {
		file = "<source>"
	}

	fmt.Fprintf(&b, "%s %s in %s\n", severityLabel(d.Severity), d.Code, file)
	fmt.Fprintf(&b, "Line %d, Column %d:\n", d.Location.Line, d.Location.Column)
	fmt.Fprintf(&b, "  %s\n", d.Message)

	return b.String()
}

// FormatList returns a formatted string of all diagnostics
func FormatList(list List) string {
	if len(list) == 0 {
		return "no diagnostics"
	}

	var b strings.Builder

	errCount, noteCount := list.ErrorCount()
	fmt.Fprintf(&b, "propkit reported %d error(s), %d note(s)\n\n", errCount, noteCount)

	for i, d := range list {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(d.Format())
	}

	return b.String()
}

// FormatCompact returns the one-line file:line:col form understood by editors
func FormatCompact(d *Diagnostic) string {
	file := d.Location.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s [%s]",
		file, d.Location.Line, d.Location.Column,
		d.Severity, d.Message, d.Code)
}

// FormatForTerminal formats a diagnostic in compact form with severity colors.
// Colors follow color.NoColor, so output degrades to plain text when piped.
func FormatForTerminal(d *Diagnostic) string {
	file := d.Location.File
	if file == "" {
		file = "<source>"
	}

	pos := color.New(color.Bold).Sprintf("%s:%d:%d:", file, d.Location.Line, d.Location.Column)
	sev := severityColor(d.Severity).Sprint(string(d.Severity))
	code := color.New(color.FgHiBlack).Sprintf("[%s]", d.Code)

	return fmt.Sprintf("%s %s: %s %s", pos, sev, d.Message, code)
}

// FormatSummary returns a one-line summary of a diagnostic list
func FormatSummary(list List) string {
	errCount, noteCount := list.ErrorCount()
	if errCount == 0 && noteCount == 0 {
		return color.GreenString("no diagnostics")
	}

	var parts []string
	if errCount > 0 {
		parts = append(parts, color.RedString("%d error(s)", errCount))
	}
	if noteCount > 0 {
		parts = append(parts, color.CyanString("%d note(s)", noteCount))
	}
	return strings.Join(parts, ", ")
}

func severityColor(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return color.New(color.FgRed, color.Bold)
	case SeverityNote:
		return color.New(color.FgCyan)
	default:
		return color.New(color.Reset)
	}
}

// severityLabel returns the bracketed label for a severity level
func severityLabel(s Severity) string {
	switch s {
	case SeverityError:
		return "[error]"
	case SeverityNote:
		return "[note]"
	default:
		return "[?]"
	}
}
