package credentials

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoCredentials is returned when no credential source is configured
	ErrNoCredentials = errors.New("no credentials found")

	// ErrMalformedCredentials is returned when a present source cannot be decoded or parsed
	ErrMalformedCredentials = errors.New("malformed credentials")

	// ErrMissingOAuthFields is returned when client_id, client_secret or refresh_token is missing
	ErrMissingOAuthFields = errors.New("missing OAuth credentials")

	// ErrTokenRefresh is returned when the access token cannot be obtained
	ErrTokenRefresh = errors.New("failed to refresh access token")
)

// OAuth credential fields
const (
	FieldClientID     = "client_id"
	FieldClientSecret = "client_secret"
	FieldRefreshToken = "refresh_token"
)

// MissingField names a field and the environment variable that could supply it
type MissingField struct {
	Name   string
	EnvVar string
}

func (f MissingField) String() string {
	return f.Name + " / " + f.EnvVar
}

// MissingFieldsError lists the OAuth values that could not be resolved
type MissingFieldsError struct {
	Fields []MissingField
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.String()
	}

	return fmt.Sprintf("Missing OAuth credentials: %s\n\n"+
		"Please provide credentials via:\n"+
		"1. The credentials JSON input with client_id, client_secret, refresh_token\n"+
		"2. Environment variables: %s, %s, %s\n\n"+
		"Run the 'auth' command to generate a refresh token.",
		strings.Join(names, ", "), EnvClientID, EnvClientSecret, EnvRefreshToken)
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingOAuthFields
}

// NoServiceAccountError is returned when every service-account source is absent
func NoServiceAccountError() error {
	return fmt.Errorf("%w: provide the credentials JSON input or set one of %s, %s, %s",
		ErrNoCredentials, EnvServiceAccountBase64, EnvServiceAccountJSON, EnvApplicationCredentials)
}
