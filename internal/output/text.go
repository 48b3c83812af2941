package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/bumpdiff/internal/comment"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("Bump.sh %s", report.Command)
	if report.Target != "" {
		ew.printf(" for %s", report.Target)
	}
	ew.println("")
	ew.println(strings.Repeat("─", 60))
	ew.printf("Status: %s\n", report.Status)
	if report.URL != "" {
		ew.printf("URL: %s\n", report.URL)
	}
	if report.Comment != "" {
		ew.printf("Comment: %s\n", report.Comment)
	}
	if report.Digest != "" {
		ew.printf("Digest: %s\n", report.Digest)
	}

	if report.Diff == nil {
		return ew.err
	}

	ew.println(strings.Repeat("─", 60))
	ew.println(comment.Title(*report.Diff))
	if report.Diff.Markdown != "" {
		ew.printf("\n%s\n", strings.TrimRight(report.Diff.Markdown, "\n"))
	}

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
