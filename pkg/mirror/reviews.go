package mirror

import (
	"context"

	"github.com/google/go-github/v68/github"
)

// FetchReviewComments returns the first page of review comments on owner/repo#number.
func FetchReviewComments(ctx context.Context, remote Remote, owner, repo string, number int) ([]ReviewComment, error) {
	comments, err := remote.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		return nil, classify(err)
	}

	result := make([]ReviewComment, 0, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		result = append(result, convertReviewComment(c))
	}
	return result, nil
}

func convertReviewComment(c *github.PullRequestComment) ReviewComment {
	return ReviewComment{
		ID:          c.GetID(),
		Body:        c.GetBody(),
		CommitID:    c.GetCommitID(),
		Path:        c.GetPath(),
		Line:        c.Line,
		Position:    c.Position,
		Side:        c.GetSide(),
		URL:         c.GetURL(),
		HTMLURL:     c.GetHTMLURL(),
		CreatedAt:   c.GetCreatedAt().Time,
		UpdatedAt:   c.GetUpdatedAt().Time,
		AuthorLogin: c.GetUser().GetLogin(),
	}
}
