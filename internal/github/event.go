package github

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	gh "github.com/google/go-github/v59/github"
)

// Event is the part of the GitHub Actions run context the action needs.
// PRNumber is 0 when the run was not triggered by a pull request.
type Event struct {
	Name     string
	Owner    string
	Repo     string
	PRNumber int
	BaseSHA  string
	HeadSHA  string
}

// IsPullRequest reports whether the run is attached to a pull request.
func (e Event) IsPullRequest() bool {
	return e.PRNumber > 0
}

// HasRevisions reports whether both base and head commits are known.
func (e Event) HasRevisions() bool {
	return e.BaseSHA != "" && e.HeadSHA != ""
}

// DetectEvent reads the run context from GITHUB_REPOSITORY,
// GITHUB_EVENT_NAME and the payload at GITHUB_EVENT_PATH. When
// GITHUB_REPOSITORY is unset the origin remote of the working directory is
// used instead.
func DetectEvent() (Event, error) {
	ev := Event{Name: os.Getenv("GITHUB_EVENT_NAME")}

	if full := os.Getenv("GITHUB_REPOSITORY"); full != "" {
		owner, repo, ok := strings.Cut(full, "/")
		if !ok || owner == "" || repo == "" {
			return Event{}, errors.Newf("malformed GITHUB_REPOSITORY %q", full)
		}
		ev.Owner, ev.Repo = owner, repo
	} else if owner, repo, err := DetectRepo("."); err == nil {
		ev.Owner, ev.Repo = owner, repo
	}

	if path := os.Getenv("GITHUB_EVENT_PATH"); path != "" {
		if err := readPullRequest(path, &ev); err != nil {
			return Event{}, err
		}
	}
	return ev, nil
}

func readPullRequest(path string, ev *Event) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading event payload %s", path)
	}

	var payload gh.PullRequestEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return errors.Wrapf(err, "parsing event payload %s", path)
	}

	pr := payload.GetPullRequest()
	if pr == nil {
		return nil
	}
	ev.PRNumber = pr.GetNumber()
	if ev.PRNumber == 0 {
		ev.PRNumber = payload.GetNumber()
	}
	ev.BaseSHA = pr.GetBase().GetSHA()
	ev.HeadSHA = pr.GetHead().GetSHA()
	return nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/\s]+)`)
)

// DetectRepo parses owner/repo from the origin remote of the repository
// containing dir.
func DetectRepo(dir string) (owner, repo string, err error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", errors.Wrap(err, "cannot detect repo")
	}
	remote, err := r.Remote("origin")
	if err != nil {
		return "", "", errors.Wrap(err, "cannot detect repo: no origin remote")
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", "", errors.New("cannot detect repo: origin remote has no URL")
	}
	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", errors.Newf("cannot parse owner/repo from remote URL: %s", url)
}
