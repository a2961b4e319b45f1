package github

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PullRef identifies a pull request by repository coordinates and number
type PullRef struct {
	Owner  string
	Repo   string
	Number int
}

var (
	// Full URL pattern, tolerating trailing tabs such as /files or /commits
	pullURLPattern = regexp.MustCompile(`^https?://github\.com/([^/\s]+)/([^/\s]+)/pull/(\d+)(?:/[^\s]*)?$`)
	// Short pattern: owner/repo#123
	shortPullPattern = regexp.MustCompile(`^([^/\s#]+)/([^/\s#]+)#(\d+)$`)
)

// ParsePullRef parses a pull request reference.
// Supported formats:
//   - https://github.com/<owner>/<repo>/pull/<n>
//   - <owner>/<repo>#<n>
func ParsePullRef(ref string) (*PullRef, error) {
	ref = strings.TrimSpace(ref)

	matches := pullURLPattern.FindStringSubmatch(ref)
	if matches == nil {
		matches = shortPullPattern.FindStringSubmatch(ref)
	}
	if matches == nil {
		return nil, fmt.Errorf("invalid pull request reference: %s (supported: https://github.com/owner/repo/pull/123 or owner/repo#123)", ref)
	}

	return newPullRef(matches[1], matches[2], matches[3])
}

// PullRefFromArgs builds a reference from separate owner, repo and number arguments
func PullRefFromArgs(owner, repo, number string) (*PullRef, error) {
	owner = strings.TrimSpace(owner)
	repo = strings.TrimSpace(repo)
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo must not be empty")
	}
	return newPullRef(owner, repo, strings.TrimPrefix(strings.TrimSpace(number), "#"))
}

func newPullRef(owner, repo, number string) (*PullRef, error) {
	num, err := strconv.Atoi(number)
	if err != nil {
		return nil, fmt.Errorf("invalid pull request number %q: %w", number, err)
	}
	if num <= 0 {
		return nil, fmt.Errorf("invalid pull request number %d: must be positive", num)
	}
	return &PullRef{Owner: owner, Repo: repo, Number: num}, nil
}

// String returns the short owner/repo#n form
func (r *PullRef) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.Number)
}

// URL returns the pull request's github.com URL
func (r *PullRef) URL() string {
	return PullURL(r.Owner, r.Repo, r.Number)
}

// PullURL returns the github.com URL of a pull request
func PullURL(owner, repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", owner, repo, number)
}
