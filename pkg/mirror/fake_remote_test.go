package mirror

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/go-github/v68/github"

	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

const (
	bitcoinBaseSHA = "ccd7fe8de52bbc9210b444838eefb7ddbc880457"
	bitcoinHeadSHA = "8a9cad44a57f1e0057c127ced5078d7e722b9cc8"
)

func bitcoinPR() *github.PullRequest {
	return &github.PullRequest{
		Number: github.Ptr(79),
		Title:  github.Ptr("Fix rounding of transaction amounts"),
		Body:   github.Ptr("Round amounts to the nearest satoshi before comparing them."),
		Base: &github.PullRequestBranch{
			Ref:  github.Ptr("master"),
			SHA:  github.Ptr(bitcoinBaseSHA),
			User: &github.User{Login: github.Ptr("bitcoin")},
		},
		Head: &github.PullRequestBranch{
			Ref:  github.Ptr("rounding"),
			SHA:  github.Ptr(bitcoinHeadSHA),
			User: &github.User{Login: github.Ptr("gavinandresen")},
		},
	}
}

func statusError(code int, message string) error {
	return &hghelper.APIError{StatusCode: code, Message: message}
}

// fakeRemote is an in-memory GitHub that remembers created refs and pull
// requests so repeated creates answer 422 like the real API.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[string]int

	forkOwner string
	forkName  string
	forkErr   error

	pr    *github.PullRequest
	prErr error

	refs   map[string]string
	refErr map[string]error

	pulls      map[string]*hghelper.NewPullRequest
	createErr  error
	nextNumber int

	comments    []*github.PullRequestComment
	commentsErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		calls:      make(map[string]int),
		forkOwner:  "fresheyes-bot",
		forkName:   "bitcoin",
		pr:         bitcoinPR(),
		refs:       make(map[string]string),
		refErr:     make(map[string]error),
		pulls:      make(map[string]*hghelper.NewPullRequest),
		nextNumber: 1,
	}
}

func (f *fakeRemote) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeRemote) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeRemote) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeRemote) CreateFork(ctx context.Context, owner, repo string) (*github.Repository, error) {
	f.record("fork")
	if err := ctx.Err(); err != nil {
		return nil, &hghelper.TransportError{Err: err}
	}
	if f.forkErr != nil {
		return nil, f.forkErr
	}
	return &github.Repository{
		Name:    github.Ptr(f.forkName),
		Owner:   &github.User{Login: github.Ptr(f.forkOwner)},
		HTMLURL: github.Ptr(fmt.Sprintf("https://github.com/%s/%s", f.forkOwner, f.forkName)),
		Fork:    github.Ptr(true),
	}, nil
}

func (f *fakeRemote) GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequest, error) {
	f.record("get_pr")
	if err := ctx.Err(); err != nil {
		return nil, &hghelper.TransportError{Err: err}
	}
	if f.prErr != nil {
		return nil, f.prErr
	}
	if f.pr.GetNumber() != number {
		return nil, statusError(http.StatusNotFound, "Not Found")
	}
	return f.pr, nil
}

func (f *fakeRemote) CreateReference(ctx context.Context, owner, repo, branch, sha string) (*github.Reference, error) {
	f.record("create_ref")
	if err := ctx.Err(); err != nil {
		return nil, &hghelper.TransportError{Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.refErr[branch]; err != nil {
		return nil, err
	}
	key := owner + "/" + repo + ":" + branch
	if _, ok := f.refs[key]; ok {
		return nil, statusError(http.StatusUnprocessableEntity, "Reference already exists")
	}
	f.refs[key] = sha
	return &github.Reference{
		Ref:    github.Ptr("refs/heads/" + branch),
		URL:    github.Ptr(fmt.Sprintf("https://api.github.com/repos/%s/%s/git/refs/heads/%s", owner, repo, branch)),
		Object: &github.GitObject{SHA: github.Ptr(sha)},
	}, nil
}

func (f *fakeRemote) CreatePullRequest(ctx context.Context, owner, repo string, newPR *hghelper.NewPullRequest) (*github.PullRequest, error) {
	f.record("create_pr")
	if err := ctx.Err(); err != nil {
		return nil, &hghelper.TransportError{Err: err}
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := owner + "/" + repo + ":" + newPR.Base + "<-->" + newPR.Head
	if _, ok := f.pulls[key]; ok {
		return nil, statusError(http.StatusUnprocessableEntity, "Validation Failed")
	}
	f.pulls[key] = newPR
	number := f.nextNumber
	f.nextNumber++
	return &github.PullRequest{
		Number:  github.Ptr(number),
		HTMLURL: github.Ptr(hghelper.PullURL(owner, repo, number)),
	}, nil
}

func (f *fakeRemote) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]*github.PullRequestComment, error) {
	f.record("list_comments")
	if err := ctx.Err(); err != nil {
		return nil, &hghelper.TransportError{Err: err}
	}
	if f.commentsErr != nil {
		return nil, f.commentsErr
	}
	return f.comments, nil
}

func (f *fakeRemote) createdPull(owner, repo, base, head string) *hghelper.NewPullRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pulls[owner+"/"+repo+":"+base+"<-->"+head]
}
