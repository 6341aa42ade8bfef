package drive

import (
	"context"

	"drive-image-upload/domain/upload"
	"drive-image-upload/infrastructure/credentials"

	"github.com/rs/zerolog"
)

// Connector implements upload.Connector: it resolves credentials fresh on every
// call and builds a client authorized by them.
type Connector struct {
	resolver *credentials.Resolver
	opts     []ClientOption
	log      zerolog.Logger
}

// NewConnector creates a connector; opts are passed to every NewClient call
func NewConnector(resolver *credentials.Resolver, log zerolog.Logger, opts ...ClientOption) *Connector {
	return &Connector{
		resolver: resolver,
		opts:     opts,
		log:      log,
	}
}

// Connect implements upload.Connector
func (c *Connector) Connect(ctx context.Context, credentialsJSON string) (upload.DriveUploader, error) {
	cred, err := c.resolver.Resolve(ctx, credentialsJSON)
	if err != nil {
		return nil, err
	}

	c.log.Debug().
		Str("strategy", string(c.resolver.Strategy())).
		Stringer("source", cred.Source).
		Str("scope", string(cred.Scope)).
		Msg("resolved credentials")

	return NewClient(ctx, cred.TokenSource, c.opts...)
}

// Ensure Connector implements upload.Connector
var _ upload.Connector = (*Connector)(nil)
