package bump

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultBaseURL is the public Bump.sh endpoint.
const DefaultBaseURL = "https://bump.sh"

const apiPrefix = "/api/v1"

var (
	// ErrUnauthorized is returned when Bump.sh rejects the token.
	ErrUnauthorized = errors.New("bump.sh rejected the access token")
	// ErrDiffTimeout is returned when a diff is still pending after DiffTimeout.
	ErrDiffTimeout = errors.New("timed out waiting for bump.sh to compute the diff")
)

// Client talks to the Bump.sh API.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	httpCli   *http.Client

	// PollInterval is the delay between two checks of a pending diff.
	PollInterval time.Duration
	// DiffTimeout bounds the total time spent waiting for a diff.
	DiffTimeout time.Duration
}

// NewClient returns a client for baseURL (DefaultBaseURL when empty). The
// user agent is sent on every request.
func NewClient(baseURL, token, userAgent string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		token:        token,
		userAgent:    userAgent,
		httpCli:      &http.Client{Timeout: 60 * time.Second},
		PollInterval: time.Second,
		DiffTimeout:  30 * time.Second,
	}
}

// Deploy publishes a new version of the documentation. A nil Version with a
// nil error means Bump.sh found nothing new to deploy.
func (c *Client) Deploy(ctx context.Context, req DeployRequest) (*Version, error) {
	var v Version
	status, err := c.do(ctx, http.MethodPost, "/versions", newVersionPayload(req.Target, req.Definition), &v)
	if err != nil {
		return nil, errors.Wrap(err, "deploying definition")
	}
	if status == http.StatusNoContent {
		return nil, nil
	}
	return &v, nil
}

// Validate checks a definition as a deploy would, without publishing it.
func (c *Client) Validate(ctx context.Context, req DeployRequest) (*Version, error) {
	var v Version
	if _, err := c.do(ctx, http.MethodPost, "/validations", newVersionPayload(req.Target, req.Definition), &v); err != nil {
		return nil, errors.Wrap(err, "validating definition")
	}
	return &v, nil
}

// Preview creates a temporary public preview of a definition.
func (c *Client) Preview(ctx context.Context, def Definition) (*Preview, error) {
	var p Preview
	payload := previewPayload{Definition: def.Content, Overlays: def.Overlays}
	if _, err := c.do(ctx, http.MethodPost, "/previews", payload, &p); err != nil {
		return nil, errors.Wrap(err, "creating preview")
	}
	return &p, nil
}

// Diff computes the change between req.Previous and req.Current, or between
// the deployed documentation and req.Current when Previous is nil. A nil
// result with a nil error means no change at all.
func (c *Client) Diff(ctx context.Context, req DiffRequest) (*DiffResult, error) {
	var (
		created createdResponse
		status  int
		err     error
		path    string
	)

	if req.Previous != nil {
		payload := diffPayload{
			PreviousDefinition: req.Previous.Content,
			PreviousOverlays:   req.Previous.Overlays,
			Definition:         req.Current.Content,
			Overlays:           req.Current.Overlays,
			ExpiresAt:          req.Expires,
		}
		status, err = c.do(ctx, http.MethodPost, "/diffs", payload, &created)
		path = "/diffs/"
	} else {
		payload := newVersionPayload(req.Target, req.Current)
		payload.Unpublished = true
		payload.ExpiresAt = req.Expires
		status, err = c.do(ctx, http.MethodPost, "/versions", payload, &created)
		path = "/versions/"
	}
	if err != nil {
		return nil, errors.Wrap(err, "creating diff")
	}
	if status == http.StatusNoContent || created.ID == "" {
		return nil, nil
	}

	return c.waitDiff(ctx, path+url.PathEscape(created.ID))
}

func (c *Client) waitDiff(ctx context.Context, path string) (*DiffResult, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.DiffTimeout)
	defer cancel()

	query := url.Values{"formats[]": {"markdown"}}.Encode()
	for {
		var resp diffResponse
		status, err := c.do(waitCtx, http.MethodGet, path+"?"+query, nil, &resp)
		if err != nil {
			if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
				return nil, ErrDiffTimeout
			}
			return nil, errors.Wrap(err, "fetching diff")
		}
		if status != http.StatusAccepted {
			return resp.result(), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrDiffTimeout
		case <-time.After(c.PollInterval):
		}
	}
}

// do sends one API request. out is decoded from 200/201 responses with a
// body. The status code is returned so callers can tell 202 and 204 apart.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, errors.Wrap(err, "marshaling request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return 0, errors.Wrap(err, "creating request")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, errors.Wrap(err, "reading response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return resp.StatusCode, errors.WithHint(ErrUnauthorized,
			"Check the `token` input: it must be the API token of the documentation or hub.")
	case resp.StatusCode >= 300:
		return resp.StatusCode, errors.Newf("bump.sh API error (status %d): %s", resp.StatusCode, errorMessage(respBody))
	}

	if out != nil && len(bytes.TrimSpace(respBody)) > 0 &&
		(resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated) {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "parsing response")
		}
	}
	return resp.StatusCode, nil
}

// errorMessage flattens a Bump.sh error payload, falling back to the raw body.
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil || (e.Message == "" && len(e.Errors) == 0) {
		return strings.TrimSpace(string(body))
	}

	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, f := range fields {
		fmt.Fprintf(&sb, "\n  - %s: %s", f, strings.Join(e.Errors[f], ", "))
	}
	return sb.String()
}

func newVersionPayload(t Target, def Definition) versionPayload {
	return versionPayload{
		Documentation:           t.Doc,
		Hub:                     t.Hub,
		BranchName:              t.Branch,
		AutoCreateDocumentation: t.Hub != "" && t.Doc == "",
		Definition:              def.Content,
		Overlays:                def.Overlays,
	}
}
