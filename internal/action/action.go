package action

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/dshills/bumpdiff/internal/bump"
	"github.com/dshills/bumpdiff/internal/comment"
	"github.com/dshills/bumpdiff/internal/config"
	"github.com/dshills/bumpdiff/internal/digest"
	"github.com/dshills/bumpdiff/internal/github"
	"github.com/dshills/bumpdiff/internal/output"
)

// ErrBreakingChange fails the run when fail_on_breaking is set and the diff
// is breaking.
var ErrBreakingChange = errors.New("Failing due to a breaking change detected in your API diff.")

// Step outputs set by the diff command.
const (
	OutputBreaking   = "breaking"
	OutputPreviewURL = "preview_url"
	OutputDigest     = "digest"
)

// BumpAPI is the part of the Bump.sh client used by the runner.
type BumpAPI interface {
	Deploy(ctx context.Context, req bump.DeployRequest) (*bump.Version, error)
	Validate(ctx context.Context, req bump.DeployRequest) (*bump.Version, error)
	Preview(ctx context.Context, def bump.Definition) (*bump.Preview, error)
	Diff(ctx context.Context, req bump.DiffRequest) (*bump.DiffResult, error)
}

// BaseRestorer restores the merge base of a pull request and returns the
// path of file inside it.
type BaseRestorer interface {
	BaseFile(ctx context.Context, file, baseSHA, headSHA string) (string, error)
}

// CommentsFunc creates the comment API. It is only called for pull
// requests, so a missing GitHub token does not break other runs.
type CommentsFunc func(ctx context.Context) (comment.API, error)

// Runner executes one command.
type Runner struct {
	Inputs   config.Inputs
	Event    github.Event
	Bump     BumpAPI
	Git      BaseRestorer
	Comments CommentsFunc
	Actions  *output.Actions
	Logger   *log.Logger
}

// Run dispatches on Inputs.Command.
func (r *Runner) Run(ctx context.Context) (*output.Report, error) {
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	r.Logger.Debug("Running command", "command", r.Inputs.Command, "file", r.Inputs.File)

	switch r.Inputs.Command {
	case config.CommandDeploy:
		return r.deploy(ctx)
	case config.CommandValidate:
		r.Actions.Warning("The validate command is deprecated, use dry-run instead.")
		return r.dryRun(ctx)
	case config.CommandDryRun:
		return r.dryRun(ctx)
	case config.CommandPreview:
		return r.preview(ctx)
	case config.CommandDiff:
		return r.diff(ctx)
	}
	return nil, errors.Wrapf(config.ErrUnknownCommand, "%q", r.Inputs.Command)
}

func (r *Runner) target() bump.Target {
	return bump.Target{Doc: r.Inputs.Doc, Hub: r.Inputs.Hub, Branch: r.Inputs.Branch}
}

func (r *Runner) identity() digest.Identity {
	return digest.Identity{Doc: r.Inputs.Doc, Hub: r.Inputs.Hub, Branch: r.Inputs.Branch}
}

func (r *Runner) definition(path string) (bump.Definition, error) {
	return bump.LoadDefinition(path, r.Inputs.Overlays)
}

func (r *Runner) deploy(ctx context.Context) (*output.Report, error) {
	def, err := r.definition(r.Inputs.File)
	if err != nil {
		return nil, err
	}

	report := &output.Report{Command: r.Inputs.Command, Target: r.identity().String()}
	v, err := r.Bump.Deploy(ctx, bump.DeployRequest{Target: r.target(), Definition: def})
	if err != nil {
		return nil, err
	}
	if v == nil {
		r.Logger.Info("Your documentation has not changed.")
		report.Status = "unchanged"
		return report, nil
	}

	r.Logger.Info("Your new documentation version will soon be ready", "url", v.DocPublicURL)
	report.Status = "deployed"
	report.URL = v.DocPublicURL
	return report, nil
}

func (r *Runner) dryRun(ctx context.Context) (*output.Report, error) {
	def, err := r.definition(r.Inputs.File)
	if err != nil {
		return nil, err
	}
	if _, err := r.Bump.Validate(ctx, bump.DeployRequest{Target: r.target(), Definition: def}); err != nil {
		return nil, err
	}
	r.Logger.Info("Definition is valid", "file", r.Inputs.File)
	return &output.Report{Command: r.Inputs.Command, Target: r.identity().String(), Status: "valid"}, nil
}

func (r *Runner) preview(ctx context.Context) (*output.Report, error) {
	def, err := r.definition(r.Inputs.File)
	if err != nil {
		return nil, err
	}
	p, err := r.Bump.Preview(ctx, def)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("Your preview is visible", "url", p.PublicURL, "expires_at", p.ExpiresAt)
	if err := r.Actions.SetOutput(OutputPreviewURL, p.PublicURL); err != nil {
		return nil, err
	}
	return &output.Report{Command: r.Inputs.Command, Status: "created", URL: p.PublicURL}, nil
}

func (r *Runner) diff(ctx context.Context) (*output.Report, error) {
	id := r.identity()
	req := bump.DiffRequest{Target: r.target(), Expires: r.Inputs.Expires}

	// The head tree is restored by BaseFile, so the current definition is
	// read after it.
	if r.Event.IsPullRequest() && r.Event.HasRevisions() {
		basePath, err := r.Git.BaseFile(ctx, r.Inputs.File, r.Event.BaseSHA, r.Event.HeadSHA)
		if err != nil {
			return nil, errors.Wrap(err, "restoring pull request base")
		}
		if basePath == "" {
			r.Logger.Info("Definition is new in this pull request, diffing against the deployed documentation.")
		} else {
			previous, err := r.definition(basePath)
			if err != nil {
				return nil, err
			}
			req.Previous = &previous
		}
	}
	if req.Previous == nil && r.Inputs.Doc == "" && r.Inputs.Hub == "" {
		return nil, errors.WithHint(errors.Wrap(config.ErrMissingDocOrHub, "diff against the deployed documentation"),
			"without a base revision the diff compares with the deployed documentation, set the doc input")
	}

	current, err := r.definition(r.Inputs.File)
	if err != nil {
		return nil, err
	}
	req.Current = current

	reconciler, err := r.reconciler(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &output.Report{Command: r.Inputs.Command, Target: id.String()}
	result, err := r.Bump.Diff(ctx, req)
	if err != nil {
		return nil, err
	}

	if result == nil {
		r.Logger.Info("No changes detected, nothing more to do.")
		outcome, err := reconciler.DeleteExisting(ctx)
		if err != nil {
			return nil, err
		}
		report.Status = "unchanged"
		report.Comment = outcome.String()
		return report, r.Actions.SetOutput(OutputBreaking, "false")
	}

	rendered := comment.Render(*result, id.Digest())
	outcome, err := reconciler.CreateOrUpdate(ctx, rendered.Body, rendered.Digest)
	if err != nil {
		return nil, err
	}

	report.Status = "changed"
	report.URL = result.PublicURL
	report.Diff = result
	report.Digest = rendered.Digest
	report.Comment = outcome.String()

	if err := r.publish(result, rendered); err != nil {
		return report, err
	}

	if r.Inputs.FailOnBreaking && result.Breaking {
		return report, ErrBreakingChange
	}
	return report, nil
}

func (r *Runner) reconciler(ctx context.Context, id digest.Identity) (*comment.Reconciler, error) {
	if !r.Event.IsPullRequest() {
		return comment.NewReconciler(nil, 0, id, r.Logger), nil
	}
	api, err := r.Comments(ctx)
	if err != nil {
		return nil, err
	}
	return comment.NewReconciler(api, r.Event.PRNumber, id, r.Logger), nil
}

func (r *Runner) publish(result *bump.DiffResult, rendered comment.Rendered) error {
	outputs := []struct{ name, value string }{
		{OutputBreaking, strconv.FormatBool(result.Breaking)},
		{OutputPreviewURL, result.PublicURL},
		{OutputDigest, rendered.Digest},
	}
	for _, o := range outputs {
		if err := r.Actions.SetOutput(o.name, o.value); err != nil {
			return err
		}
	}
	return r.Actions.AppendSummary(comment.Summary(rendered))
}
