// Package github adapts the GitHub REST API to the comment port used by the
// reconciler, and reads the GitHub Actions run context.
//
// [Client] lists (with full pagination), creates, edits and deletes issue
// comments of a single repository through go-github. Failed calls carry
// remediation hints about workflow permissions and fork restrictions.
//
// [DetectEvent] reads GITHUB_REPOSITORY and the event payload at
// GITHUB_EVENT_PATH to find the pull request number and its base and head
// commits. Outside of Actions, [DetectRepo] falls back to the origin remote.
package github
