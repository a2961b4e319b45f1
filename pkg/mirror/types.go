package mirror

import (
	"fmt"
	"time"
)

// RepositoryRef identifies a GitHub repository.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// ForkResult describes the fork created (or returned) for a source repository.
type ForkResult struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	ForkedRepoURL string `json:"forked_repo_url,omitempty"`
}

// PullRequestDetails holds what the mirror needs from a source pull request.
// BaseRef and HeadRef are the generated branch names used in the fork, not the
// source refs.
type PullRequestDetails struct {
	BaseSHA string `json:"base_sha"`
	HeadSHA string `json:"head_sha"`
	BaseRef string `json:"base_ref"`
	HeadRef string `json:"head_ref"`
	Title   string `json:"title"`
	Body    string `json:"body"`
}

// BranchSpec is the input to branch creation.
type BranchSpec struct {
	Owner     string
	Repo      string
	BranchRef string
	SHA       string
}

// ReviewComment is a review comment on the source pull request.
type ReviewComment struct {
	ID          int64     `json:"id"`
	Body        string    `json:"body"`
	CommitID    string    `json:"commit_id"`
	Path        string    `json:"path"`
	Line        *int      `json:"line,omitempty"`
	Position    *int      `json:"position,omitempty"`
	Side        string    `json:"side,omitempty"`
	URL         string    `json:"url"`
	HTMLURL     string    `json:"html_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AuthorLogin string    `json:"author_login"`
}

// OutcomeKind distinguishes a fresh success from a soft success.
type OutcomeKind int

const (
	// OutcomeSuccess means the resource was created.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeAlreadyExists means the resource was already there; not an error.
	OutcomeAlreadyExists
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "created"
	case OutcomeAlreadyExists:
		return "already_exists"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of a create operation that did not fail.
type Outcome struct {
	Kind    OutcomeKind
	Message string
	URL     string
}

// AlreadyExists reports whether the outcome is a soft success.
func (o Outcome) AlreadyExists() bool {
	return o.Kind == OutcomeAlreadyExists
}

// Request is the input to a mirror run.
type Request struct {
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
	PullNumber int    `json:"pull_number"`
}

// Validate checks that every field needed before the first remote call is present.
func (r Request) Validate() error {
	switch {
	case r.Owner == "":
		return missingField("owner is required")
	case r.Repo == "":
		return missingField("repo is required")
	case r.PullNumber <= 0:
		return missingField(fmt.Sprintf("pull_number must be a positive integer, got %d", r.PullNumber))
	}
	return nil
}

// Source returns the repository the pull request lives in.
func (r Request) Source() RepositoryRef {
	return RepositoryRef{Owner: r.Owner, Name: r.Repo}
}

func (r Request) String() string {
	return fmt.Sprintf("%s/%s#%d", r.Owner, r.Repo, r.PullNumber)
}

// StepRecord describes one completed workflow transition.
type StepRecord struct {
	// State is the state the workflow entered
	State string `json:"state"`

	// Description is a human-readable account of what happened
	Description string `json:"description"`

	// Metadata carries step-specific values such as branch names and outcomes
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewStepRecord creates a StepRecord for the given state.
func NewStepRecord(state State, description string) StepRecord {
	return StepRecord{
		State:       state.String(),
		Description: description,
		Metadata:    make(map[string]string),
	}
}

// AddMetadata adds metadata to a step record.
func (s *StepRecord) AddMetadata(key, value string) {
	if s.Metadata == nil {
		s.Metadata = make(map[string]string)
	}
	s.Metadata[key] = value
}

// Result is the outcome of a completed mirror run.
//
// PRURL is empty when the pull request already existed and no fallback URL
// applied; Message then carries the soft-success text. ReviewsChecked is set
// only when the review comment lookup ran and succeeded.
type Result struct {
	Source         RepositoryRef      `json:"source"`
	PullNumber     int                `json:"pull_number"`
	PRURL          string             `json:"pr_url"`
	Message        string             `json:"message,omitempty"`
	AlreadyExisted bool               `json:"already_existed"`
	Fork           ForkResult         `json:"fork"`
	Details        PullRequestDetails `json:"details"`
	ReviewCount    int                `json:"review_count"`
	ReviewsChecked bool               `json:"reviews_checked"`
	Steps          []StepRecord       `json:"steps"`
	CompletedAt    time.Time          `json:"completed_at"`
}
