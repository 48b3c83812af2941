package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Actions writes to the GitHub Actions runner.
type Actions struct {
	out         io.Writer
	outputPath  string
	summaryPath string
	delimiter   func() string
}

// NewActions returns an Actions writing workflow commands to out and files
// to the paths advertised by the runner. Outside a runner the file writes
// are no-ops.
func NewActions(out io.Writer) *Actions {
	return NewActionsWithPaths(out, os.Getenv("GITHUB_OUTPUT"), os.Getenv("GITHUB_STEP_SUMMARY"))
}

// NewActionsWithPaths is NewActions with explicit file paths.
func NewActionsWithPaths(out io.Writer, outputPath, summaryPath string) *Actions {
	return &Actions{
		out:         out,
		outputPath:  outputPath,
		summaryPath: summaryPath,
		delimiter:   func() string { return "ghadelimiter_" + uuid.NewString() },
	}
}

// SetOutput records a step output using the heredoc file format.
func (a *Actions) SetOutput(name, value string) error {
	if a.outputPath == "" {
		return nil
	}
	delim := a.delimiter()
	if strings.Contains(name, delim) || strings.Contains(value, delim) {
		return errors.Newf("output %s contains its delimiter", name)
	}
	return appendFile(a.outputPath, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim))
}

// AppendSummary appends markdown to the job summary.
func (a *Actions) AppendSummary(markdown string) error {
	if a.summaryPath == "" {
		return nil
	}
	return appendFile(a.summaryPath, markdown)
}

// Mask asks the runner to hide value in every later log line.
func (a *Actions) Mask(value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(a.out, "::add-mask::%s\n", escapeData(value))
}

// Error emits an error annotation.
func (a *Actions) Error(msg string) {
	fmt.Fprintf(a.out, "::error::%s\n", escapeData(msg))
}

// Warning emits a warning annotation.
func (a *Actions) Warning(msg string) {
	fmt.Fprintf(a.out, "::warning::%s\n", escapeData(msg))
}

func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "opening %s", path)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return f.Close()
}
