package mirror

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// FetchPullRequest fetches owner/repo#number. A 404 is KindNotFound.
func FetchPullRequest(ctx context.Context, remote Remote, owner, repo string, number int) (*github.PullRequest, error) {
	pr, err := remote.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		if hghelper.IsNotFoundError(err) {
			return nil, &OpError{
				Kind:    KindNotFound,
				Code:    http.StatusNotFound,
				Message: fmt.Sprintf("pull request %s/%s#%d not found", owner, repo, number),
				Err:     err,
			}
		}
		return nil, classify(err)
	}
	return pr, nil
}

// CreatePullRequest opens newPR in owner/repo. A 422 means a pull request
// between the same branches exists and is reported as OutcomeAlreadyExists.
func CreatePullRequest(ctx context.Context, remote Remote, owner, repo string, newPR *hghelper.NewPullRequest) (Outcome, error) {
	pr, err := remote.CreatePullRequest(ctx, owner, repo, newPR)
	if err != nil {
		if hghelper.IsUnprocessableError(err) {
			return Outcome{
				Kind:    OutcomeAlreadyExists,
				Message: fmt.Sprintf("a pull request already exists for %s<-->%s", newPR.Base, newPR.Head),
			}, nil
		}
		return Outcome{}, classify(err)
	}

	return Outcome{Kind: OutcomeSuccess, URL: pr.GetHTMLURL()}, nil
}
