package credentials

import (
	"fmt"
	"strings"
)

// Source identifies where a credential came from
type Source int

const (
	SourceInlineOAuthJSON Source = iota + 1
	SourceInlineServiceAccountJSON
	SourceEnvBase64ServiceAccount
	SourceEnvJSONServiceAccount
	SourceEnvServiceAccountFile
	SourceEnvOAuthVars
)

func (s Source) String() string {
	switch s {
	case SourceInlineOAuthJSON:
		return "inline OAuth JSON"
	case SourceInlineServiceAccountJSON:
		return "inline service account JSON"
	case SourceEnvBase64ServiceAccount:
		return EnvServiceAccountBase64
	case SourceEnvJSONServiceAccount:
		return EnvServiceAccountJSON
	case SourceEnvServiceAccountFile:
		return EnvApplicationCredentials
	case SourceEnvOAuthVars:
		return "OAuth environment variables"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Environment variables consulted by the resolvers
const (
	EnvServiceAccountBase64   = "GOOGLE_SERVICE_ACCOUNT_BASE64"
	EnvServiceAccountJSON     = "GOOGLE_SERVICE_ACCOUNT_JSON"
	EnvApplicationCredentials = "GOOGLE_APPLICATION_CREDENTIALS"

	EnvClientID     = "GOOGLE_CLIENT_ID"
	EnvClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvRefreshToken = "GOOGLE_REFRESH_TOKEN"
)

// TokenEndpoint is Google's OAuth 2.0 token endpoint
const TokenEndpoint = "https://oauth2.googleapis.com/token"

// Strategy selects which credential chain a deployment uses
type Strategy string

const (
	StrategyOAuth          Strategy = "oauth"
	StrategyServiceAccount Strategy = "service_account"
)

// ParseStrategy parses a strategy name; "" selects OAuth
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyOAuth:
		return StrategyOAuth, nil
	case StrategyServiceAccount:
		return StrategyServiceAccount, nil
	}
	return "", fmt.Errorf("unknown credential strategy %q (expected %q or %q)", s, StrategyOAuth, StrategyServiceAccount)
}

// Scope is an OAuth scope for the Drive API
type Scope string

const (
	ScopeDrive     Scope = "https://www.googleapis.com/auth/drive"
	ScopeDriveFile Scope = "https://www.googleapis.com/auth/drive.file"
)

// ParseScope accepts "drive", "drive.file" or a full scope URL; "" selects the strategy default
func ParseScope(s string, strategy Strategy) (Scope, error) {
	switch strings.TrimSpace(s) {
	case "":
		return DefaultScope(strategy), nil
	case "drive", string(ScopeDrive):
		return ScopeDrive, nil
	case "drive.file", string(ScopeDriveFile):
		return ScopeDriveFile, nil
	}
	return "", fmt.Errorf("unsupported scope %q", s)
}

// DefaultScope is full drive access for users and file-scoped access for service accounts
func DefaultScope(strategy Strategy) Scope {
	if strategy == StrategyServiceAccount {
		return ScopeDriveFile
	}
	return ScopeDrive
}

// FileChecker reports whether a file exists on disk
type FileChecker interface {
	Exists(path string) bool
}
