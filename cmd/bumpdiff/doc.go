// Bumpdiff deploys, previews and diffs API documentation on Bump.sh from a
// GitHub Actions workflow.
//
// On pull requests the diff command keeps a single comment per documentation
// up to date with the API changes introduced by the branch.
//
// Usage:
//
//	bumpdiff                          # run the `command` action input (deploy by default)
//	bumpdiff deploy openapi.yml --doc my-doc --token $BUMP_TOKEN
//	bumpdiff dry-run openapi.yml --doc my-doc --token $BUMP_TOKEN
//	bumpdiff preview openapi.yml
//	bumpdiff diff openapi.yml --doc my-doc --fail-on-breaking
package main
