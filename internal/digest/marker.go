package digest

import (
	"fmt"
	"regexp"
)

// Version identifies a marker wire format.
type Version int

const (
	// VersionScoped is the current format: digest plus document identity.
	VersionScoped Version = iota
	// VersionKeyed is the oldest format, keyed on a deployed version id.
	VersionKeyed
	// VersionLegacy carries a digest only and belongs to any document.
	VersionLegacy
)

func (v Version) String() string {
	switch v {
	case VersionScoped:
		return "scoped"
	case VersionKeyed:
		return "version-keyed"
	case VersionLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Marker is one decoded marker. Doc is set only for VersionScoped and
// VersionID only for VersionKeyed.
type Marker struct {
	Version   Version
	Digest    string
	Doc       string
	VersionID string
}

// Matches reports whether the marker belongs to the document with the given
// identity digest. Unscoped markers predate document scoping and match any
// document.
func (m Marker) Matches(docDigest string) bool {
	if m.Digest == "" {
		return false
	}
	if m.Version == VersionScoped {
		return m.Doc == docDigest
	}
	return true
}

// String renders the marker in its own wire format.
func (m Marker) String() string {
	switch m.Version {
	case VersionKeyed:
		return fmt.Sprintf("<!-- Bump.sh version_id=%s digest=%s -->", m.VersionID, m.Digest)
	case VersionLegacy:
		return fmt.Sprintf("<!-- Bump.sh digest=%s -->", m.Digest)
	default:
		return fmt.Sprintf("<!-- Bump.sh digest=%s doc=%s -->", m.Digest, m.Doc)
	}
}

// decoders are tried in order, most specific first. Each pattern is anchored
// on the full marker so a scoped marker never satisfies the legacy shape.
var decoders = []struct {
	re    *regexp.Regexp
	build func(m []string) Marker
}{
	{
		re: regexp.MustCompile(`<!-- Bump\.sh digest=(\S*) doc=(\S*) -->`),
		build: func(m []string) Marker {
			return Marker{Version: VersionScoped, Digest: m[1], Doc: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`<!-- Bump\.sh version_id=(\S*) digest=(\S*) -->`),
		build: func(m []string) Marker {
			return Marker{Version: VersionKeyed, VersionID: m[1], Digest: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`<!-- Bump\.sh digest=(\S*) -->`),
		build: func(m []string) Marker {
			return Marker{Version: VersionLegacy, Digest: m[1]}
		},
	},
}

// Encode returns the current marker line for a document and content digest.
func Encode(docDigest, contentDigest string) string {
	return Marker{Version: VersionScoped, Digest: contentDigest, Doc: docDigest}.String()
}

// Find returns the marker in body that belongs to the document identified by
// docDigest. Shapes are tried most specific first; within a shape the last
// occurrence wins.
func Find(docDigest, body string) (Marker, bool) {
	for _, d := range decoders {
		matches := d.re.FindAllStringSubmatch(body, -1)
		for i := len(matches) - 1; i >= 0; i-- {
			m := d.build(matches[i])
			if m.Matches(docDigest) {
				return m, true
			}
		}
	}
	return Marker{}, false
}

// Decode extracts the content digest of the marker in body that belongs to
// docDigest. It never fails: a body without a matching marker, or with an
// empty digest, yields ("", false).
func Decode(docDigest, body string) (string, bool) {
	m, ok := Find(docDigest, body)
	if !ok {
		return "", false
	}
	return m.Digest, true
}
