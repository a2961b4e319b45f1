package mirror

import (
	"context"
	"fmt"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// CreateBranch creates refs/heads/{spec.BranchRef} at spec.SHA.
// A 422 means the branch exists and is reported as OutcomeAlreadyExists.
func CreateBranch(ctx context.Context, remote Remote, spec BranchSpec) (Outcome, error) {
	ref, err := remote.CreateReference(ctx, spec.Owner, spec.Repo, spec.BranchRef, spec.SHA)
	if err != nil {
		if hghelper.IsUnprocessableError(err) {
			return Outcome{
				Kind:    OutcomeAlreadyExists,
				Message: fmt.Sprintf("branch %s already exists", spec.BranchRef),
			}, nil
		}
		return Outcome{}, classify(err)
	}

	return Outcome{Kind: OutcomeSuccess, URL: ref.GetURL()}, nil
}
