// Package bump is a small client for the Bump.sh REST API, covering the
// calls the action makes: deploying a definition, validating it, creating a
// public preview, and computing a diff between two definitions or between a
// definition and the deployed documentation.
//
// Diffs are computed asynchronously by Bump.sh. [Client.Diff] creates the
// diff then polls until it is ready, bounded by [Client.DiffTimeout].
package bump
