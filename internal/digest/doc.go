// Package digest computes the content-addressed digests used to recognize
// bumpdiff pull-request comments, and encodes them into the HTML comment
// marker appended to every posted body.
//
// Three marker shapes have been posted over time and all of them are still
// decoded:
//
//	<!-- Bump.sh digest=<content> doc=<identity> -->   current
//	<!-- Bump.sh version_id=<id> digest=<content> -->  oldest, keyed on a version
//	<!-- Bump.sh digest=<content> -->                  legacy, before document scoping
//
// Use [Sum] to hash fragments, [Identity.Digest] to scope a comment to a
// document, [Encode] to produce the current marker and [Decode] to read a
// digest back out of an existing comment body.
package digest
