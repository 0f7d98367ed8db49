package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders Entry values as caret-style, colorized diagnostics in
// the same spirit as the teacher's rustc-like ErrorReporter, scaled down to
// this core's single-line W1xx codes.
type Reporter struct {
	source string
	lines  []string
}

// NewReporter builds a Reporter over the given source text, used to pull
// context lines for each diagnostic.
func NewReporter(source string) *Reporter {
	return &Reporter{source: source, lines: strings.Split(source, "\n")}
}

// Format renders a single Entry.
func (r *Reporter) Format(e Entry) string {
	var b strings.Builder

	level := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	msg := e.Message
	if msg == "" {
		msg = Description(e.Code)
	}
	fmt.Fprintf(&b, "%s[%s]: %s\n", level("error"), e.Code, msg)
	fmt.Fprintf(&b, "  %s %s\n", dim("-->"), e.Position)

	if e.Position.Line > 0 && e.Position.Line <= len(r.lines) {
		line := r.lines[e.Position.Line-1]
		fmt.Fprintf(&b, "  %s %s\n", dim("|"), line)
		caret := strings.Repeat(" ", max(0, e.Position.Column-1)) + "^"
		fmt.Fprintf(&b, "  %s %s\n", dim("|"), color.New(color.FgRed).Sprint(caret))
	}

	for k, v := range e.Options {
		fmt.Fprintf(&b, "  %s %s: %s\n", dim("note"), k, v)
	}

	return b.String()
}

// FormatAll renders every entry in a Recorder, in report order.
func (r *Reporter) FormatAll(rec *Recorder) string {
	var b strings.Builder
	for _, e := range rec.Entries {
		b.WriteString(r.Format(e))
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
