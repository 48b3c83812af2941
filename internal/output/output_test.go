package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dshills/bumpdiff/internal/bump"
)

func diffReport() *Report {
	return &Report{
		Command: "diff",
		Target:  "my-hub/my-doc@main",
		Status:  "changed",
		URL:     "https://bump.sh/doc/my-doc/changes/1",
		Diff: &bump.DiffResult{
			ID:        "1",
			Markdown:  "* Removed GET /pets\n",
			PublicURL: "https://bump.sh/doc/my-doc/changes/1",
			Breaking:  true,
		},
		Digest:  "4b81e612",
		Comment: "created",
	}
}

func TestGetWriter(t *testing.T) {
	for _, format := range []string{"text", "json", "markdown", ""} {
		if _, err := GetWriter(format); err != nil {
			t.Errorf("GetWriter(%q) error: %v", format, err)
		}
	}
	if _, err := GetWriter("sarif"); err == nil {
		t.Error("GetWriter(sarif) should fail")
	}
}

func TestTextWriter_Diff(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, diffReport(), "text"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Bump.sh diff for my-hub/my-doc@main",
		"Status: changed",
		"Comment: created",
		"🚨 Breaking API change detected:",
		"* Removed GET /pets",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextWriter_Deploy(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Command: "deploy", Target: "my-doc", Status: "deployed", URL: "https://bump.sh/doc/my-doc"}
	if err := WriteReport(&buf, report, "text"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "URL: https://bump.sh/doc/my-doc") {
		t.Errorf("output should contain the URL:\n%s", out)
	}
	if strings.Contains(out, "detected") {
		t.Errorf("output should not contain a diff title:\n%s", out)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, diffReport(), "json"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Diff == nil || !got.Diff.Breaking {
		t.Errorf("diff not preserved: %+v", got.Diff)
	}
	if !strings.Contains(buf.String(), `"public_url"`) {
		t.Errorf("JSON should use snake_case diff fields:\n%s", buf.String())
	}
}

func TestMarkdownWriter_Diff(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, diffReport(), "markdown"); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "🚨 Breaking API change detected:\n") {
		t.Errorf("markdown should start with the title:\n%s", out)
	}
	if !strings.Contains(out, "[Preview documentation](https://bump.sh/doc/my-doc/changes/1)") {
		t.Errorf("markdown should link the preview:\n%s", out)
	}
	if strings.Contains(out, "<!-- Bump.sh") {
		t.Errorf("markdown should not contain the marker:\n%s", out)
	}
}

func TestMarkdownWriter_NoDiff(t *testing.T) {
	var buf bytes.Buffer
	report := &Report{Command: "preview", Status: "created", URL: "https://bump.sh/preview/1"}
	if err := WriteReport(&buf, report, "markdown"); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	want := "## Bump.sh preview\n\n**Status:** created\n\n[Documentation](https://bump.sh/preview/1)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
