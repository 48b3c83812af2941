// Package output reports the result of a command.
//
// Three local formats are supported for stdout:
//   - text     human-readable terminal output (default)
//   - json     the structured [Report]
//   - markdown the comment body as it appears on the pull request
//
// [Actions] speaks the GitHub Actions runner protocol: step outputs through
// $GITHUB_OUTPUT, the job summary through $GITHUB_STEP_SUMMARY, and workflow
// commands (::add-mask::, ::error::, ::warning::) on stdout.
package output
