package output

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/dshills/bumpdiff/internal/bump"
)

// Report is the outcome of one command.
type Report struct {
	Command string           `json:"command"`
	Target  string           `json:"target,omitempty"`
	Status  string           `json:"status"`
	URL     string           `json:"url,omitempty"`
	Diff    *bump.DiffResult `json:"diff,omitempty"`
	Digest  string           `json:"digest,omitempty"`
	Comment string           `json:"comment,omitempty"`
}

// Writer writes a report in a specific format.
type Writer interface {
	Write(w io.Writer, report *Report) error
}

// GetWriter returns a writer for the specified format.
func GetWriter(format string) (Writer, error) {
	switch format {
	case "text", "":
		return &TextWriter{}, nil
	case "json":
		return &JSONWriter{}, nil
	case "markdown":
		return &MarkdownWriter{}, nil
	default:
		return nil, errors.Newf("unsupported output format: %s", format)
	}
}

// WriteReport writes the report to w in the given format.
func WriteReport(w io.Writer, report *Report, format string) error {
	writer, err := GetWriter(format)
	if err != nil {
		return err
	}
	return writer.Write(w, report)
}
