// Package gitctx prepares the two sides of a pull-request diff on disk.
//
// [Checkout.BaseFile] fetches the base and head commits of the pull request,
// finds their merge base, writes the merge-base tree under a temporary
// directory and restores the head tree in the working directory. The
// definition file can then be compared as it was where the branch forked
// against how the branch leaves it, including any files it references.
//
// Fetching shells out to git so the credentials configured by
// actions/checkout are honored. Everything else goes through go-git.
package gitctx
