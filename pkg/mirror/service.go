package mirror

import (
	"context"
	"errors"

	"github.com/holon-run/fresheyes/pkg/credential"
	hghelper "github.com/holon-run/fresheyes/pkg/github"
)

// RemoteFactory builds a Remote authenticated with token.
type RemoteFactory func(token string) Remote

// ClientFactory returns a RemoteFactory producing *hghelper.Client values
// configured with opts.
func ClientFactory(opts ...hghelper.ClientOption) RemoteFactory {
	return func(token string) Remote {
		return hghelper.NewClient(token, opts...)
	}
}

// Service is the entry point front-ends call. Each Mirror call resolves the
// credential, builds its own Remote and runs a fresh Workflow, so concurrent
// calls share nothing mutable.
type Service struct {
	credentials credential.Provider
	newRemote   RemoteFactory
	opts        []Option
}

// NewService creates a Service. opts are applied to every Workflow it runs.
func NewService(credentials credential.Provider, newRemote RemoteFactory, opts ...Option) *Service {
	if newRemote == nil {
		newRemote = ClientFactory()
	}
	return &Service{
		credentials: credentials,
		newRemote:   newRemote,
		opts:        opts,
	}
}

// WithCredentials returns a copy of s that authenticates with credentials.
func (s *Service) WithCredentials(credentials credential.Provider) *Service {
	clone := *s
	clone.credentials = credentials
	return &clone
}

// Mirror validates req, resolves a token and runs the workflow. A missing
// credential fails with KindMissingField before any remote call.
func (s *Service) Mirror(ctx context.Context, req Request, opts ...Option) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.credentials == nil {
		return nil, missingField("GitHub credential is required")
	}

	token, err := s.credentials.Token(ctx)
	if err != nil {
		if errors.Is(err, credential.ErrNoToken) {
			return nil, &OpError{Kind: KindMissingField, Message: "GitHub credential is required: " + err.Error(), Err: err}
		}
		return nil, err
	}
	if token == "" {
		return nil, missingField("GitHub credential is required")
	}

	all := append(append([]Option{}, s.opts...), opts...)
	return NewWorkflow(s.newRemote(token), all...).Run(ctx, req)
}
