// Package cli wires together the Cobra command tree for the bumpdiff binary.
//
// The root command runs the command named by the `command` action input
// (deploy by default), so the binary can be used as the entrypoint of the
// GitHub Action unchanged. Each command is also available as a subcommand
// (deploy, dry-run, validate, preview, diff) for local use, plus version.
//
// Flags are bound through viper to the INPUT_* variables the runner exports
// for action inputs. Failures are reported as ::error:: workflow commands
// and mapped to deterministic exit codes.
package cli
