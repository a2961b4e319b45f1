// Package mirror recreates a GitHub pull request inside a fork of its
// repository so it can be reviewed without the original discussion.
//
// A run forks the source repository, fetches the pull request, creates a base
// and a head branch in the fork at the pull request's commits and opens a new
// pull request between them. Steps run strictly in order and the first failure
// ends the run. Branches or pull requests that already exist count as success,
// so a run can be repeated for the same pull request.
package mirror

import (
	"context"

	"github.com/google/go-github/v68/github"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// Remote is the subset of the GitHub API a mirror run uses.
// *hghelper.Client implements it.
type Remote interface {
	CreateFork(ctx context.Context, owner, repo string) (*github.Repository, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error)
	CreateReference(ctx context.Context, owner, repo, branch, sha string) (*github.Reference, error)
	CreatePullRequest(ctx context.Context, owner, repo string, newPR *hghelper.NewPullRequest) (*github.PullRequest, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error)
}

var _ Remote = (*hghelper.Client)(nil)
