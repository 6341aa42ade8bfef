package credentials

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"drive-image-upload/domain/credentials"

	"golang.org/x/oauth2/google"
)

func (r *Resolver) serviceAccountChain(inline string) []sourceResolver {
	return []sourceResolver{
		r.inlineServiceAccount(inline),
		r.envBase64ServiceAccount,
		r.envJSONServiceAccount,
		r.envServiceAccountFile,
	}
}

func (r *Resolver) inlineServiceAccount(inline string) sourceResolver {
	return func(ctx context.Context) (*Credential, error) {
		inline = strings.TrimSpace(inline)
		if inline == "" {
			return nil, nil
		}
		return r.serviceAccountCredential(ctx, credentials.SourceInlineServiceAccountJSON, []byte(inline))
	}
}

func (r *Resolver) envBase64ServiceAccount(ctx context.Context) (*Credential, error) {
	encoded := strings.TrimSpace(r.env.Get(credentials.EnvServiceAccountBase64))
	if encoded == "" {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", credentials.ErrMalformedCredentials, credentials.EnvServiceAccountBase64, err)
	}
	return r.serviceAccountCredential(ctx, credentials.SourceEnvBase64ServiceAccount, data)
}

func (r *Resolver) envJSONServiceAccount(ctx context.Context) (*Credential, error) {
	raw := strings.TrimSpace(r.env.Get(credentials.EnvServiceAccountJSON))
	if raw == "" {
		return nil, nil
	}
	return r.serviceAccountCredential(ctx, credentials.SourceEnvJSONServiceAccount, []byte(raw))
}

// envServiceAccountFile only counts as present when the path exists on disk
func (r *Resolver) envServiceAccountFile(ctx context.Context) (*Credential, error) {
	path := strings.TrimSpace(r.env.Get(credentials.EnvApplicationCredentials))
	if path == "" || !r.files.Exists(path) {
		return nil, nil
	}

	data, err := r.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}
	return r.serviceAccountCredential(ctx, credentials.SourceEnvServiceAccountFile, data)
}

func (r *Resolver) serviceAccountCredential(ctx context.Context, source credentials.Source, data []byte) (*Credential, error) {
	config, err := google.JWTConfigFromJSON(data, string(r.scope))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", credentials.ErrMalformedCredentials, source, err)
	}

	return &Credential{
		Source:      source,
		Scope:       r.scope,
		TokenSource: config.TokenSource(ctx),
	}, nil
}
