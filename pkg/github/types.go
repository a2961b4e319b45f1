package github

// NewPullRequest describes a pull request to open
type NewPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	// Head is the branch containing the changes, optionally "owner:branch"
	Head string `json:"head"`
	// Base is the branch the changes are merged into
	Base string `json:"base"`
}
