package credentials

import (
	"context"
	"os"

	"drive-image-upload/domain/credentials"
	"drive-image-upload/infrastructure/filesystem"

	"golang.org/x/oauth2"
)

// Credential is a resolved credential, valid for a single upload call
type Credential struct {
	Source      credentials.Source
	Scope       credentials.Scope
	TokenSource oauth2.TokenSource
}

// sourceResolver tries one credential source.
// It returns (nil, nil) when the source is absent and an error when it is present but unusable.
type sourceResolver func(ctx context.Context) (*Credential, error)

// Resolver resolves credentials for one strategy
type Resolver struct {
	strategy credentials.Strategy
	scope    credentials.Scope
	env      Env
	files    credentials.FileChecker
	readFile func(string) ([]byte, error)
	tokenURL string
}

// Option is a functional option for configuring Resolver
type Option func(*Resolver)

// WithEnv sets the environment the resolvers read from
func WithEnv(env Env) Option {
	return func(r *Resolver) {
		r.env = env
	}
}

// WithFileChecker sets the checker used for GOOGLE_APPLICATION_CREDENTIALS
func WithFileChecker(fc credentials.FileChecker) Option {
	return func(r *Resolver) {
		r.files = fc
	}
}

// WithScope overrides the strategy's default scope
func WithScope(scope credentials.Scope) Option {
	return func(r *Resolver) {
		if scope != "" {
			r.scope = scope
		}
	}
}

// WithTokenURL overrides the OAuth token endpoint (for testing)
func WithTokenURL(url string) Option {
	return func(r *Resolver) {
		r.tokenURL = url
	}
}

// NewResolver creates a resolver for the given strategy
func NewResolver(strategy credentials.Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategy: strategy,
		scope:    credentials.DefaultScope(strategy),
		env:      OSEnv{},
		files:    filesystem.NewChecker(),
		readFile: os.ReadFile,
		tokenURL: credentials.TokenEndpoint,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Strategy returns the configured strategy
func (r *Resolver) Strategy() credentials.Strategy {
	return r.strategy
}

// Resolve produces a credential from the inline JSON or the environment.
// A fresh credential is built on every call.
func (r *Resolver) Resolve(ctx context.Context, inline string) (*Credential, error) {
	if r.strategy == credentials.StrategyServiceAccount {
		cred, err := firstResolved(ctx, r.serviceAccountChain(inline))
		if err != nil {
			return nil, err
		}
		if cred == nil {
			return nil, credentials.NoServiceAccountError()
		}
		return cred, nil
	}
	return r.resolveOAuth(ctx, inline)
}

// firstResolved walks the chain in order and stops at the first present source.
// An error from a present source ends the walk; lower-priority sources are not consulted.
func firstResolved(ctx context.Context, chain []sourceResolver) (*Credential, error) {
	for _, resolve := range chain {
		cred, err := resolve(ctx)
		if err != nil {
			return nil, err
		}
		if cred != nil {
			return cred, nil
		}
	}
	return nil, nil
}
