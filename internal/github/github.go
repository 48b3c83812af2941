package github

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	gh "github.com/google/go-github/v59/github"
	"golang.org/x/oauth2"

	"github.com/dshills/bumpdiff/internal/comment"
)

const (
	// DefaultAPIURL is the public GitHub REST endpoint.
	DefaultAPIURL = "https://api.github.com"
	// CommentsPerPage is the page size used when listing comments.
	CommentsPerPage = 100
)

// ErrMissingToken is returned when no GitHub token is configured.
var ErrMissingToken = errors.New("No GITHUB_TOKEN env variable available. Are you sure to run this package from a Github Action?")

const (
	hintPermissions = "Check that the workflow grants the `pull-requests: write` permission to GITHUB_TOKEN."
	hintForks       = "Pull requests opened from forks only get a read-only token on `pull_request` events; comments cannot be posted from them."
)

type issuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *gh.IssueListCommentsOptions) ([]*gh.IssueComment, *gh.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, c *gh.IssueComment) (*gh.IssueComment, *gh.Response, error)
	EditComment(ctx context.Context, owner, repo string, id int64, c *gh.IssueComment) (*gh.IssueComment, *gh.Response, error)
	DeleteComment(ctx context.Context, owner, repo string, id int64) (*gh.Response, error)
}

// Options configures a Client.
type Options struct {
	Token     string
	APIURL    string
	UserAgent string
	Owner     string
	Repo      string
	Logger    *log.Logger
}

// Client implements comment.API for one repository.
type Client struct {
	issues issuesService
	owner  string
	repo   string
	logger *log.Logger
}

var _ comment.API = (*Client)(nil)

// NewClient creates a client authenticated with opts.Token. A missing token
// is a configuration error and fails immediately.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, errors.Newf("repository owner and name are required, got %q/%q", opts.Owner, opts.Repo)
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	client := gh.NewClient(httpClient)
	if opts.UserAgent != "" {
		client.UserAgent = opts.UserAgent
	}

	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL != "" && apiURL != DefaultAPIURL {
		u, err := url.Parse(apiURL + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid GitHub API URL %q", opts.APIURL)
		}
		client.BaseURL = u
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		issues: client.Issues,
		owner:  opts.Owner,
		repo:   opts.Repo,
		logger: logger,
	}, nil
}

// ListComments returns every comment of the pull request, following
// pagination until the last page.
func (c *Client) ListComments(ctx context.Context, pr int) ([]comment.Comment, error) {
	var all []comment.Comment
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: CommentsPerPage},
	}

	for {
		page, resp, err := c.issues.ListComments(ctx, c.owner, c.repo, pr, opts)
		if err != nil {
			return nil, withHints(errors.Wrapf(err, "listing comments (page %d)", max(opts.Page, 1)), err)
		}

		c.logger.Debug("Retrieved comments page", "page", max(opts.Page, 1), "count", len(page))
		for _, ic := range page {
			all = append(all, comment.Comment{ID: ic.GetID(), Body: ic.GetBody()})
		}

		if resp == nil || resp.NextPage == 0 {
			return all, nil
		}
		opts.Page = resp.NextPage
	}
}

// CreateComment posts a new comment on the pull request.
func (c *Client) CreateComment(ctx context.Context, pr int, body string) (comment.Comment, error) {
	created, _, err := c.issues.CreateComment(ctx, c.owner, c.repo, pr, &gh.IssueComment{Body: gh.String(body)})
	if err != nil {
		return comment.Comment{}, withHints(errors.Wrap(err, "creating comment"), err)
	}
	return comment.Comment{ID: created.GetID(), Body: created.GetBody()}, nil
}

// UpdateComment replaces the body of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, id int64, body string) error {
	if _, _, err := c.issues.EditComment(ctx, c.owner, c.repo, id, &gh.IssueComment{Body: gh.String(body)}); err != nil {
		return withHints(errors.Wrap(err, "updating comment"), err)
	}
	return nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	if _, err := c.issues.DeleteComment(ctx, c.owner, c.repo, id); err != nil {
		return withHints(errors.Wrap(err, "deleting comment"), err)
	}
	return nil
}

// withHints attaches remediation hints when cause is an HTTP failure from
// GitHub. Transport errors are returned unchanged.
func withHints(err, cause error) error {
	var resp *gh.ErrorResponse
	if !errors.As(cause, &resp) {
		return err
	}
	return errors.WithHint(errors.WithHint(err, hintPermissions), hintForks)
}
