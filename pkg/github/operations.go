package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
)

// forkRequest is sent explicitly so that every branch of the source repository
// is copied. go-github omits false booleans, which would leave GitHub free to
// fork the default branch only.
type forkRequest struct {
	DefaultBranchOnly bool `json:"default_branch_only"`
}

// CreateFork forks owner/repo into the authenticated user's account.
//
// GitHub answers 202 Accepted while the copy is still in progress; the body
// already describes the fork, so both 201 and 202 are treated as success.
// Forking a repository the user already forked returns the existing fork.
func (c *Client) CreateFork(ctx context.Context, owner, repo string) (*github.Repository, error) {
	u := fmt.Sprintf("repos/%s/%s/forks", owner, repo)
	req, err := c.NewRequest(ctx, http.MethodPost, u, &forkRequest{DefaultBranchOnly: false})
	if err != nil {
		return nil, err
	}

	var fork github.Repository
	if _, err := c.Do(req, &fork); err != nil {
		return nil, err
	}
	return &fork, nil
}

// GetPullRequest fetches a single pull request
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	pr, _, err := c.GitHubClient().PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, classifyError(err)
	}
	return pr, nil
}

// CreateReference creates refs/heads/<branch> in owner/repo pointing at sha.
// branch may also be given fully qualified.
func (c *Client) CreateReference(ctx context.Context, owner, repo, branch, sha string) (*github.Reference, error) {
	ref := &github.Reference{
		Ref:    github.Ptr(qualifyBranch(branch)),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	}

	created, _, err := c.GitHubClient().Git.CreateRef(ctx, owner, repo, ref)
	if err != nil {
		return nil, classifyError(err)
	}
	return created, nil
}

// CreatePullRequest opens a pull request in owner/repo
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, newPR *NewPullRequest) (*github.PullRequest, error) {
	pr, _, err := c.GitHubClient().PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(newPR.Title),
		Head:  github.Ptr(newPR.Head),
		Base:  github.Ptr(newPR.Base),
		Body:  github.Ptr(newPR.Body),
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return pr, nil
}

// ListReviewComments returns the first page of review comments on a pull request.
//
// The request goes through NewRequest rather than PullRequests.ListComments,
// which replaces the v3 Accept header with preview media types.
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error) {
	u := fmt.Sprintf("repos/%s/%s/pulls/%d/comments", owner, repo, number)
	req, err := c.NewRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var comments []*github.PullRequestComment
	if _, err := c.Do(req, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func qualifyBranch(branch string) string {
	if strings.HasPrefix(branch, "refs/") {
		return branch
	}
	return "refs/heads/" + branch
}
