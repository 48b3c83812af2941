// Package action runs one command of the Bump.sh GitHub Action.
//
// A [Runner] is assembled from the resolved inputs, the run context and its
// collaborators (Bump.sh client, git checkout, comment API). [Runner.Run]
// dispatches on the command:
//
//   - deploy   publishes a new documentation version
//   - dry-run  validates a deploy without publishing (validate is a
//     deprecated alias)
//   - preview  creates a temporary public preview
//   - diff     computes the API diff and keeps one pull-request comment per
//     documentation in sync with it
//
// Every command returns an [output.Report] describing what happened.
package action
