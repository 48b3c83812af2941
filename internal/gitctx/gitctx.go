package gitctx

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultTmpDir is where the base tree is restored, relative to Dir.
const DefaultTmpDir = "tmp"

// FetchFunc makes the given revisions available in the repository at dir.
type FetchFunc func(ctx context.Context, dir string, revs ...string) error

// Checkout restores pull-request revisions in a local repository.
type Checkout struct {
	Dir    string
	TmpDir string
	Fetch  FetchFunc
	logger *log.Logger
}

// NewCheckout returns a Checkout for the repository at dir that fetches
// from origin with the git binary.
func NewCheckout(dir string, logger *log.Logger) *Checkout {
	if logger == nil {
		logger = log.Default()
	}
	return &Checkout{
		Dir:    dir,
		TmpDir: DefaultTmpDir,
		Fetch:  FetchOrigin,
		logger: logger,
	}
}

// BaseFile restores the merge base of baseSHA and headSHA under TmpDir and
// the head tree in Dir, then returns the path of file inside the restored
// base tree. It returns an empty path when file does not exist at the merge
// base, i.e. the pull request adds it.
func (c *Checkout) BaseFile(ctx context.Context, file, baseSHA, headSHA string) (string, error) {
	if baseSHA == "" || headSHA == "" {
		return "", errors.New("base and head revisions are required")
	}

	if c.Fetch != nil {
		if err := c.Fetch(ctx, c.Dir, baseSHA, headSHA); err != nil {
			return "", err
		}
	}

	repo, err := git.PlainOpenWithOptions(c.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", errors.Wrapf(err, "opening repository at %s", c.Dir)
	}

	base, err := commit(repo, baseSHA)
	if err != nil {
		return "", err
	}
	head, err := commit(repo, headSHA)
	if err != nil {
		return "", err
	}

	ancestor, err := MergeBase(base, head)
	if err != nil {
		return "", err
	}
	c.logger.Debug("Resolved merge base", "base", baseSHA, "head", headSHA, "merge_base", ancestor.Hash.String())

	tmp := filepath.Join(c.Dir, c.TmpDir)
	if err := restoreTree(ancestor, tmp); err != nil {
		return "", errors.Wrapf(err, "restoring %s into %s", ancestor.Hash, tmp)
	}
	if err := restoreTree(head, c.Dir); err != nil {
		return "", errors.Wrapf(err, "restoring %s", headSHA)
	}

	path := filepath.Join(tmp, file)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			c.logger.Debug("File absent at merge base", "file", file, "merge_base", ancestor.Hash.String())
			return "", nil
		}
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return path, nil
}

// MergeBase returns the best common ancestor of two commits.
func MergeBase(a, b *object.Commit) (*object.Commit, error) {
	bases, err := a.MergeBase(b)
	if err != nil {
		return nil, errors.Wrapf(err, "computing merge base of %s and %s", a.Hash, b.Hash)
	}
	if len(bases) == 0 {
		return nil, errors.Newf("%s and %s have no common ancestor", a.Hash, b.Hash)
	}
	return bases[0], nil
}

func commit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", rev)
	}
	c, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Wrapf(err, "reading commit %s", rev)
	}
	return c, nil
}

// restoreTree writes every regular file of the commit tree under dest.
// Symlinks and submodules are skipped.
func restoreTree(c *object.Commit, dest string) error {
	tree, err := c.Tree()
	if err != nil {
		return err
	}
	return tree.Files().ForEach(func(f *object.File) error {
		if f.Mode != filemode.Regular && f.Mode != filemode.Executable && f.Mode != filemode.Deprecated {
			return nil
		}
		return writeFile(f, filepath.Join(dest, filepath.FromSlash(f.Name)))
	})
}

func writeFile(f *object.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	perm := os.FileMode(0o644)
	if f.Mode == filemode.Executable {
		perm = 0o755
	}

	r, err := f.Reader()
	if err != nil {
		return err
	}
	defer r.Close()

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// FetchOrigin runs `git fetch origin <revs...>` in dir.
func FetchOrigin(ctx context.Context, dir string, revs ...string) error {
	args := append([]string{"fetch", "origin"}, revs...)
	if _, err := gitOutput(ctx, dir, args...); err != nil {
		return errors.Wrap(err, "git fetch")
	}
	return nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", errors.Newf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
