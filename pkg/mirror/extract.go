package mirror

import (
	"fmt"

	"github.com/google/go-github/v68/github"
)

// BranchName returns the fork branch name for a source ref:
// {login}-fresheyes-{ref}-{number}.
func BranchName(login, ref string, number int) string {
	return fmt.Sprintf("%s-fresheyes-%s-%d", login, ref, number)
}

// ExtractDetails reads the fields the mirror needs from a pull request.
// Missing fields become empty strings; it never fails.
func ExtractDetails(pr *github.PullRequest) PullRequestDetails {
	base := pr.GetBase()
	head := pr.GetHead()
	number := pr.GetNumber()

	return PullRequestDetails{
		BaseSHA: base.GetSHA(),
		HeadSHA: head.GetSHA(),
		BaseRef: BranchName(base.GetUser().GetLogin(), base.GetRef(), number),
		HeadRef: BranchName(head.GetUser().GetLogin(), head.GetRef(), number),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
	}
}
