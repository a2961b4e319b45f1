package mirror

import (
	"context"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// Fork forks repo into the authenticated account. Every failure is KindForkFailed.
func Fork(ctx context.Context, remote Remote, repo RepositoryRef) (*ForkResult, error) {
	created, err := remote.CreateFork(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, &OpError{Kind: KindForkFailed, Code: hghelper.StatusCode(err), Err: err}
	}

	owner := created.GetOwner().GetLogin()
	if owner == "" {
		return nil, &OpError{Kind: KindForkFailed, Message: "fork response has no owner login"}
	}

	name := created.GetName()
	if name == "" {
		name = repo.Name
	}

	return &ForkResult{
		Owner:         owner,
		Repo:          name,
		ForkedRepoURL: created.GetHTMLURL(),
	}, nil
}
