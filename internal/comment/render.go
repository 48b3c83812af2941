package comment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/bumpdiff/internal/bump"
	"github.com/dshills/bumpdiff/internal/digest"
)

// Comment titles, selected by Title.
const (
	TitleBreaking   = "🚨 Breaking API change detected:"
	TitleStructural = "🤖 API structural change detected:"
	TitleContent    = "ℹ️ API content change detected:"
)

const (
	noStructuralChange = "No structural change, nothing to display."
	poweredBy          = "> _Powered by [Bump.sh](https://bump.sh)_"
	truncationNotice   = "\n\n---\n*Diff truncated due to comment size limits*\n"
)

// MaxBodySize is GitHub's limit for an issue comment body, in bytes.
const MaxBodySize = 65536

// Rendered is a comment body ready to be reconciled.
type Rendered struct {
	Title  string
	Body   string
	Digest string
}

// Title picks the comment title. The breaking flag wins over everything;
// otherwise a diff with markdown is structural and one without is content
// only.
func Title(result bump.DiffResult) string {
	switch {
	case result.Breaking:
		return TitleBreaking
	case result.Markdown != "":
		return TitleStructural
	default:
		return TitleContent
	}
}

// ContentDigest hashes the parts of a diff that end up in the comment.
func ContentDigest(result bump.DiffResult) string {
	return digest.Sum(result.Markdown, result.PublicURL)
}

// Render builds the comment body for result, scoped to the document with
// identity digest docDigest. The marker is always the last line. The diff text
// is truncated, and then the preview link dropped, so the body stays within
// MaxBodySize.
func Render(result bump.DiffResult, docDigest string) Rendered {
	return renderWithLimit(result, docDigest, MaxBodySize)
}

func renderWithLimit(result bump.DiffResult, docDigest string, limit int) Rendered {
	title := Title(result)
	contentDigest := ContentDigest(result)
	marker := digest.Encode(docDigest, contentDigest)

	text := result.Markdown
	if text == "" {
		text = noStructuralChange
	}

	link := result.PublicURL
	body := compose(title, text, link, marker)
	if len(body) > limit {
		avail := limit - len(compose(title, "", link, marker)) - len(truncationNotice)
		if avail <= 0 {
			// The preview link alone does not fit.
			link = ""
			avail = limit - len(compose(title, "", link, marker)) - len(truncationNotice)
		}
		text = truncate(text, avail) + truncationNotice
		body = compose(title, text, link, marker)
	}

	return Rendered{Title: title, Body: body, Digest: contentDigest}
}

func compose(title, text, publicURL, marker string) string {
	link := ""
	if publicURL != "" {
		link = fmt.Sprintf("\n[Preview documentation](%s)\n", publicURL)
	}
	return strings.Join([]string{title, "", text, link, poweredBy, marker}, "\n")
}

// truncate cuts s to at most n bytes, preferring a line boundary in the
// second half and never splitting a rune.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndex(cut, "\n"); i > n/2 {
		return cut[:i]
	}
	for len(cut) > 0 && !utf8.RuneStart(s[len(cut)]) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

// Summary strips the marker from a rendered body, for places where it would
// be noise such as the job summary.
func Summary(r Rendered) string {
	if i := strings.LastIndex(r.Body, "\n<!-- Bump.sh"); i >= 0 {
		return r.Body[:i] + "\n"
	}
	return r.Body
}
