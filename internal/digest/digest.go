package digest

import (
	"crypto/sha1"
	"encoding/hex"
)

// Sum hashes the non-empty fragments in order, with no separator, and returns
// the hex encoded SHA-1. Empty fragments are skipped rather than hashed, so
// Sum("a", "", "b") == Sum("a", "b").
func Sum(fragments ...string) string {
	h := sha1.New()
	for _, f := range fragments {
		if f == "" {
			continue
		}
		h.Write([]byte(f))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Identity names the document a comment thread belongs to. Any field may be
// empty.
type Identity struct {
	Doc    string
	Hub    string
	Branch string
}

// Digest returns the identity digest. It is stable across content changes.
func (id Identity) Digest() string {
	return Sum(id.Doc, id.Hub, id.Branch)
}

// String implements fmt.Stringer for log output.
func (id Identity) String() string {
	s := id.Doc
	if id.Hub != "" {
		s = id.Hub + "/" + s
	}
	if id.Branch != "" {
		s += "@" + id.Branch
	}
	if s == "" {
		return "(anonymous)"
	}
	return s
}
