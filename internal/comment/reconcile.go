package comment

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/dshills/bumpdiff/internal/digest"
)

// Comment is a pull-request comment as seen through the host API.
type Comment struct {
	ID   int64
	Body string
}

// API is the subset of the host comment API the reconciler needs. List must
// return every comment on the pull request, not a single page.
type API interface {
	ListComments(ctx context.Context, pr int) ([]Comment, error)
	CreateComment(ctx context.Context, pr int, body string) (Comment, error)
	UpdateComment(ctx context.Context, id int64, body string) error
	DeleteComment(ctx context.Context, id int64) error
}

// Outcome reports what a reconciliation did.
type Outcome int

const (
	// OutcomeSkipped means there was no pull request to comment on.
	OutcomeSkipped Outcome = iota
	OutcomeCreated
	OutcomeUpdated
	// OutcomeUnchanged means the existing comment already carries the digest.
	OutcomeUnchanged
	OutcomeDeleted
	// OutcomeAbsent means there was nothing to delete.
	OutcomeAbsent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeDeleted:
		return "deleted"
	case OutcomeAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Reconciler keeps one comment per (pull request, document) in sync.
type Reconciler struct {
	api       API
	pr        int
	identity  digest.Identity
	docDigest string
	logger    *log.Logger
}

// NewReconciler returns a reconciler for the document id on pull request pr.
// A pr of 0 means the run is not attached to a pull request; every operation
// is then a no-op and api may be nil.
func NewReconciler(api API, pr int, id digest.Identity, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		api:       api,
		pr:        pr,
		identity:  id,
		docDigest: id.Digest(),
		logger:    logger,
	}
}

// FindExisting returns the first comment whose marker belongs to this
// document, along with the content digest it carries. Listing errors are
// returned as-is.
func (r *Reconciler) FindExisting(ctx context.Context) (*Comment, string, error) {
	comments, err := r.api.ListComments(ctx, r.pr)
	if err != nil {
		return nil, "", errors.Wrapf(err, "listing comments of pull request #%d", r.pr)
	}

	r.logger.Debug("Searching for existing comment",
		"pr", r.pr,
		"doc", r.identity,
		"comments", len(comments))

	for i := range comments {
		if d, ok := digest.Decode(r.docDigest, comments[i].Body); ok {
			r.logger.Debug("Found existing comment", "comment_id", comments[i].ID, "digest", d)
			return &comments[i], d, nil
		}
	}
	return nil, "", nil
}

// CreateOrUpdate posts body unless the existing comment already carries
// contentDigest. It performs at most one write.
func (r *Reconciler) CreateOrUpdate(ctx context.Context, body, contentDigest string) (Outcome, error) {
	if r.pr == 0 {
		r.logger.Info("Not a pull request, nothing more to do.")
		return OutcomeSkipped, nil
	}

	existing, existingDigest, err := r.FindExisting(ctx)
	if err != nil {
		return OutcomeSkipped, err
	}

	if existing == nil {
		r.logger.Info("Creating new comment", "pr", r.pr, "doc", r.identity)
		created, err := r.api.CreateComment(ctx, r.pr, body)
		if err != nil {
			return OutcomeSkipped, errors.Wrapf(err, "creating comment on pull request #%d", r.pr)
		}
		r.logger.Info("Created comment", "comment_id", created.ID)
		return OutcomeCreated, nil
	}

	if existingDigest == contentDigest {
		r.logger.Info("Existing comment is up to date", "comment_id", existing.ID)
		return OutcomeUnchanged, nil
	}

	r.logger.Info("Updating existing comment", "comment_id", existing.ID, "pr", r.pr)
	if err := r.api.UpdateComment(ctx, existing.ID, body); err != nil {
		return OutcomeSkipped, errors.Wrapf(err, "updating comment %d", existing.ID)
	}
	return OutcomeUpdated, nil
}

// DeleteExisting removes the comment of this document, if any. It is used
// once the diff reports no change so a stale comment does not linger.
func (r *Reconciler) DeleteExisting(ctx context.Context) (Outcome, error) {
	if r.pr == 0 {
		r.logger.Info("Not a pull request, nothing more to do.")
		return OutcomeSkipped, nil
	}

	existing, _, err := r.FindExisting(ctx)
	if err != nil {
		return OutcomeSkipped, err
	}
	if existing == nil {
		return OutcomeAbsent, nil
	}

	r.logger.Info("Deleting stale comment", "comment_id", existing.ID, "pr", r.pr)
	if err := r.api.DeleteComment(ctx, existing.ID); err != nil {
		return OutcomeSkipped, errors.Wrapf(err, "deleting comment %d", existing.ID)
	}
	return OutcomeDeleted, nil
}
