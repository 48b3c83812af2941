package output

import (
	"fmt"
	"io"

	"github.com/dshills/bumpdiff/internal/comment"
)

// MarkdownWriter outputs the report as it would be commented on a pull
// request, without the digest marker.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *Report) error {
	if report.Diff == nil {
		_, err := fmt.Fprintf(w, "## Bump.sh %s\n\n**Status:** %s\n", report.Command, report.Status)
		if err == nil && report.URL != "" {
			_, err = fmt.Fprintf(w, "\n[Documentation](%s)\n", report.URL)
		}
		return err
	}
	_, err := io.WriteString(w, comment.Summary(comment.Render(*report.Diff, "")))
	return err
}
