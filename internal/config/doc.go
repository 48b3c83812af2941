// Package config resolves the action inputs.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. GitHub Actions inputs (INPUT_FILE, INPUT_DOC, INPUT_FAIL_ON_BREAKING, etc.)
//  3. Tool environment (BUMP_TOKEN, BUMP_URL, GITHUB_TOKEN, GITHUB_API_URL)
//  4. Built-in defaults
//
// Use [NewViper] to bind a flag set, [Load] to obtain the merged [Inputs] and
// [Inputs.Validate] before running a command.
package config
