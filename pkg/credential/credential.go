// Package credential resolves the GitHub token a mirror run authenticates with.
//
// Providers are explicit values passed to whoever needs a token; nothing is
// cached process-wide. Chain tries providers in order, which is how the CLI
// combines the environment, the token file and the interactive prompt.
package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken is returned when a provider has no token to offer.
var ErrNoToken = errors.New("no GitHub token available")

// Provider supplies a bearer token.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static is a fixed token, e.g. one taken from an HTTP Authorization header.
type Static string

func (s Static) Token(context.Context) (string, error) {
	token := strings.TrimSpace(string(s))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DefaultEnvNames are consulted in order by Env.
var DefaultEnvNames = []string{"GH_TOKEN", "GITHUB_TOKEN", "FRESHEYES_GITHUB_TOKEN"}

// Env reads the token from environment variables.
type Env struct {
	Names []string
	// Lookup defaults to os.LookupEnv
	Lookup func(string) (string, bool)
}

// NewEnv returns an Env provider for names, or DefaultEnvNames when none are given.
func NewEnv(names ...string) *Env {
	if len(names) == 0 {
		names = DefaultEnvNames
	}
	return &Env{Names: names, Lookup: os.LookupEnv}
}

func (e *Env) Token(context.Context) (string, error) {
	lookup := e.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, name := range e.Names {
		if v, ok := lookup(name); ok {
			if token := strings.TrimSpace(v); token != "" {
				return token, nil
			}
		}
	}
	return "", fmt.Errorf("%w: none of %s is set", ErrNoToken, strings.Join(e.Names, ", "))
}

// Chain returns the first token any provider yields. Providers reporting
// ErrNoToken are skipped; any other error stops the chain.
type Chain []Provider

func (c Chain) Token(ctx context.Context) (string, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		token, err := p.Token(ctx)
		if err == nil && token != "" {
			return token, nil
		}
		if err != nil && !errors.Is(err, ErrNoToken) {
			return "", err
		}
	}
	return "", ErrNoToken
}
