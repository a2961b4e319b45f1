package mirror

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
	"github.com/holon-run/fresheyes/pkg/log"
)

// State is a workflow state. States are entered strictly in declaration order.
type State int

const (
	StateStart State = iota
	StateForked
	StatePRFetched
	StateBaseBranchCreated
	StateHeadBranchCreated
	StatePRCreated
	StateDone
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateForked:
		return "forked"
	case StatePRFetched:
		return "pr_fetched"
	case StateBaseBranchCreated:
		return "base_branch_created"
	case StateHeadBranchCreated:
		return "head_branch_created"
	case StatePRCreated:
		return "pr_created"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithReviewLookup enables or disables the review-comment lookup that decides
// the fallback URL. It is enabled by default.
func WithReviewLookup(enabled bool) Option {
	return func(w *Workflow) {
		w.fetchReviews = enabled
	}
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithClock overrides the time source used for Result.CompletedAt.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

// Workflow runs the mirror sequence against a Remote. It holds no per-run
// state and may be used for several runs, one at a time or concurrently.
type Workflow struct {
	remote       Remote
	fetchReviews bool
	logger       *zap.SugaredLogger
	now          func() time.Time
}

// NewWorkflow creates a Workflow for remote.
func NewWorkflow(remote Remote, opts ...Option) *Workflow {
	w := &Workflow{
		remote:       remote,
		fetchReviews: true,
		logger:       log.L(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run mirrors req's pull request into a fork.
//
// The first failing step ends the run with a *StepError. Resources created by
// earlier steps are left in place. Cancelling ctx stops the run at the next
// remote call.
func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if w.remote == nil {
		return nil, missingField("remote client is required")
	}

	source := req.Source()
	logger := w.logger.With("source", req.String())
	state := StateStart
	result := &Result{Source: source, PullNumber: req.PullNumber}

	fail := func(step string, err error) (*Result, error) {
		logger.Errorw("mirror step failed", "state", state.String(), "step", step, "error", err)
		return nil, &StepError{State: state, Step: step, Err: err}
	}
	enter := func(next State, record StepRecord) {
		state = next
		result.Steps = append(result.Steps, record)
	}

	// Start -> Forked
	if err := ctx.Err(); err != nil {
		return fail("fork repository", err)
	}
	fork, err := Fork(ctx, w.remote, source)
	if err != nil {
		return fail("fork repository", err)
	}
	result.Fork = *fork
	logger.Infow("forked repository", "fork_owner", fork.Owner, "fork_repo", fork.Repo)
	step := NewStepRecord(StateForked, fmt.Sprintf("forked %s into %s/%s", source, fork.Owner, fork.Repo))
	step.AddMetadata("fork_url", fork.ForkedRepoURL)
	enter(StateForked, step)

	// Forked -> PRFetched
	if err := ctx.Err(); err != nil {
		return fail("fetch pull request", err)
	}
	pr, err := FetchPullRequest(ctx, w.remote, source.Owner, source.Name, req.PullNumber)
	if err != nil {
		return fail("fetch pull request", err)
	}
	details := ExtractDetails(pr)
	result.Details = details
	logger.Debugw("fetched pull request", "base_ref", details.BaseRef, "head_ref", details.HeadRef)
	step = NewStepRecord(StatePRFetched, fmt.Sprintf("fetched %s", req))
	step.AddMetadata("title", details.Title)
	enter(StatePRFetched, step)

	// PRFetched -> BaseBranchCreated -> HeadBranchCreated
	branches := []struct {
		next State
		name string
		spec BranchSpec
	}{
		{StateBaseBranchCreated, "base", BranchSpec{Owner: fork.Owner, Repo: fork.Repo, BranchRef: details.BaseRef, SHA: details.BaseSHA}},
		{StateHeadBranchCreated, "head", BranchSpec{Owner: fork.Owner, Repo: fork.Repo, BranchRef: details.HeadRef, SHA: details.HeadSHA}},
	}
	for _, b := range branches {
		stepName := "create " + b.name + " branch"
		if err := ctx.Err(); err != nil {
			return fail(stepName, err)
		}
		outcome, err := CreateBranch(ctx, w.remote, b.spec)
		if err != nil {
			return fail(stepName, err)
		}
		if outcome.AlreadyExists() {
			logger.Infow(outcome.Message, "branch", b.spec.BranchRef)
		} else {
			logger.Infow("created branch", "branch", b.spec.BranchRef, "sha", b.spec.SHA)
		}
		step = NewStepRecord(b.next, fmt.Sprintf("%s branch %s", b.name, b.spec.BranchRef))
		step.AddMetadata("branch", b.spec.BranchRef)
		step.AddMetadata("sha", b.spec.SHA)
		step.AddMetadata("outcome", outcome.Kind.String())
		enter(b.next, step)
	}

	// HeadBranchCreated -> PRCreated
	if err := ctx.Err(); err != nil {
		return fail("create pull request", err)
	}
	outcome, err := CreatePullRequest(ctx, w.remote, fork.Owner, fork.Repo, &hghelper.NewPullRequest{
		Title: details.Title,
		Body:  details.Body,
		Base:  details.BaseRef,
		Head:  details.HeadRef,
	})
	if err != nil {
		return fail("create pull request", err)
	}
	step = NewStepRecord(StatePRCreated, fmt.Sprintf("pull request %s<-->%s", details.BaseRef, details.HeadRef))
	step.AddMetadata("outcome", outcome.Kind.String())
	if outcome.URL != "" {
		step.AddMetadata("url", outcome.URL)
	}
	enter(StatePRCreated, step)

	if w.fetchReviews {
		comments, err := FetchReviewComments(ctx, w.remote, source.Owner, source.Name, req.PullNumber)
		if err != nil {
			logger.Warnw("review comment lookup failed", "error", err)
		} else {
			result.ReviewCount = len(comments)
			result.ReviewsChecked = true
		}
	}

	result.AlreadyExisted = outcome.AlreadyExists()
	switch {
	case outcome.URL != "":
		result.PRURL = outcome.URL
	case result.ReviewCount > 0:
		result.PRURL = hghelper.PullURL(source.Owner, source.Name, req.PullNumber)
		result.Message = outcome.Message
	default:
		result.Message = outcome.Message
	}

	step = NewStepRecord(StateDone, "mirror complete")
	step.AddMetadata("review_count", strconv.Itoa(result.ReviewCount))
	if result.PRURL != "" {
		step.AddMetadata("pr_url", result.PRURL)
	}
	enter(StateDone, step)
	result.CompletedAt = w.now()

	logger.Infow("mirror complete", "pr_url", result.PRURL, "already_existed", result.AlreadyExisted)
	return result, nil
}
