package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"drive-image-upload/domain/credentials"

	"golang.org/x/oauth2"
)

// oauthFields is the inline JSON accepted by the OAuth strategy
type oauthFields struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// resolveOAuth assembles client_id, client_secret and refresh_token field by field,
// inline value first and environment second, then refreshes the access token.
func (r *Resolver) resolveOAuth(ctx context.Context, inline string) (*Credential, error) {
	var given oauthFields
	if inline = strings.TrimSpace(inline); inline != "" {
		// Malformed inline JSON never falls back to the environment
		if err := json.Unmarshal([]byte(inline), &given); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON in credentials input: %v", credentials.ErrMalformedCredentials, err)
		}
	}

	source := credentials.SourceEnvOAuthVars
	pick := func(value, envVar string) string {
		if value = strings.TrimSpace(value); value != "" {
			source = credentials.SourceInlineOAuthJSON
			return value
		}
		return strings.TrimSpace(r.env.Get(envVar))
	}

	fields := oauthFields{
		ClientID:     pick(given.ClientID, credentials.EnvClientID),
		ClientSecret: pick(given.ClientSecret, credentials.EnvClientSecret),
		RefreshToken: pick(given.RefreshToken, credentials.EnvRefreshToken),
	}

	var missing []credentials.MissingField
	if fields.ClientID == "" {
		missing = append(missing, credentials.MissingField{Name: credentials.FieldClientID, EnvVar: credentials.EnvClientID})
	}
	if fields.ClientSecret == "" {
		missing = append(missing, credentials.MissingField{Name: credentials.FieldClientSecret, EnvVar: credentials.EnvClientSecret})
	}
	if fields.RefreshToken == "" {
		missing = append(missing, credentials.MissingField{Name: credentials.FieldRefreshToken, EnvVar: credentials.EnvRefreshToken})
	}
	if len(missing) > 0 {
		return nil, &credentials.MissingFieldsError{Fields: missing}
	}

	config := &oauth2.Config{
		ClientID:     fields.ClientID,
		ClientSecret: fields.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  r.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{string(r.scope)},
	}

	tokenSource := config.TokenSource(ctx, &oauth2.Token{RefreshToken: fields.RefreshToken})
	if _, err := tokenSource.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", credentials.ErrTokenRefresh, err)
	}

	return &Credential{
		Source:      source,
		Scope:       r.scope,
		TokenSource: tokenSource,
	}, nil
}
