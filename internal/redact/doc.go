// Package redact removes credentials from text before it reaches the job log.
//
// A [Redactor] knows the literal secret values of the run (Bump.sh token,
// GitHub token) and falls back to regex heuristics for credential shapes that
// may be echoed back by an API: GitHub tokens, authorization headers, JWTs
// and token assignments.
package redact
