// Package comment maintains the single bumpdiff summary comment of a pull
// request.
//
// [Render] turns a Bump.sh diff into a markdown body ending with a digest
// marker. A [Reconciler] then looks for the comment previously posted for
// the same document and creates it, updates it, or leaves it alone when the
// content digest has not changed. At most one write is issued per call.
//
// The host is reached through the [API] port so the reconciler has no
// knowledge of GitHub beyond comment ids and bodies.
package comment
