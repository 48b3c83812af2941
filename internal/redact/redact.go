package redact

import (
	"regexp"
	"slices"
	"strings"
)

const placeholder = "[REDACTED]"

// secretPatterns are regex heuristics for common credential shapes.
var secretPatterns = []*regexp.Regexp{
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`),
	// Authorization headers
	regexp.MustCompile(`(?i)(Bearer|Token)\s+[A-Za-z0-9._~+/=-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Token assignments
	regexp.MustCompile(`(?i)(secret|token|password)\s*[:=]\s*["']([^"']{8,})["']`),
}

// Secrets replaces detected secrets in text with [REDACTED].
func Secrets(text string) string {
	result := text
	for _, pat := range secretPatterns {
		result = pat.ReplaceAllString(result, placeholder)
	}
	return result
}

// Redactor masks known secret values and pattern matches.
type Redactor struct {
	values []string
}

// New returns a Redactor for the given secret values. Empty values are
// ignored.
func New(values ...string) *Redactor {
	r := &Redactor{}
	for _, v := range values {
		r.Add(v)
	}
	return r
}

// Add registers another secret value.
func (r *Redactor) Add(v string) {
	if v == "" || slices.Contains(r.values, v) {
		return
	}
	r.values = append(r.values, v)
	// Longest first so a secret containing another is masked whole.
	slices.SortFunc(r.values, func(a, b string) int { return len(b) - len(a) })
}

// Values returns the registered secret values.
func (r *Redactor) Values() []string {
	return slices.Clone(r.values)
}

// String redacts s.
func (r *Redactor) String(s string) string {
	for _, v := range r.values {
		s = strings.ReplaceAll(s, v, placeholder)
	}
	return Secrets(s)
}
