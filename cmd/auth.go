package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	domaincreds "drive-image-upload/domain/credentials"
	"drive-image-upload/infrastructure/credentials"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

var (
	authClientFile string
	authAddr       string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain an OAuth refresh token in the browser",
	Long: `Run the Google consent flow and print the refresh token.

The OAuth client comes from --client-file (a desktop client JSON downloaded from
the Cloud console), google.oauth_client_file in the config, or the
GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment variables.

Copy the printed lines into your .env file.

Example:
  drive-image-upload auth
  drive-image-upload auth --client-file client_secret.json --scope drive.file`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringVar(&authClientFile, "client-file", "", "OAuth client JSON file")
	authCmd.Flags().StringVar(&authAddr, "addr", "", "Address for the local callback server (default localhost:8085)")
	authCmd.Flags().StringVar(&credentialScope, "scope", "", "Drive scope: drive or drive.file")
}

func runAuth(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	scopeName := cfg.Google.Scope
	if credentialScope != "" {
		scopeName = credentialScope
	}
	scope, err := domaincreds.ParseScope(scopeName, domaincreds.StrategyOAuth)
	if err != nil {
		return err
	}

	clientFile := cfg.Google.OAuthClientFile
	if authClientFile != "" {
		clientFile = authClientFile
	}

	oauthConfig, err := oauthClientConfig(clientFile, scope, credentials.OSEnv{})
	if err != nil {
		return err
	}

	addr := cfg.Google.OAuthCallbackAddr
	if authAddr != "" {
		addr = authAddr
	}

	return RunAuthWithDependencies(cmd.Context(), credentials.Authorize, oauthConfig, addr, os.Stdout)
}

// Authorizer runs the consent flow and returns a token carrying a refresh token
type Authorizer func(ctx context.Context, config *oauth2.Config, addr string, out io.Writer) (*oauth2.Token, error)

// RunAuthWithDependencies runs the auth command with injected dependencies (for testing)
func RunAuthWithDependencies(ctx context.Context, authorize Authorizer, config *oauth2.Config, addr string, out OutputWriter) error {
	token, err := authorize(ctx, config, addr, out)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Fprintln(out, "Authorization complete. Add these lines to your .env file:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s=%s\n", domaincreds.EnvClientID, config.ClientID)
	fmt.Fprintf(out, "%s=%s\n", domaincreds.EnvClientSecret, config.ClientSecret)
	fmt.Fprintf(out, "%s=%s\n", domaincreds.EnvRefreshToken, token.RefreshToken)
	return nil
}

// oauthClientConfig loads the OAuth client from a file, falling back to environment variables
func oauthClientConfig(clientFile string, scope domaincreds.Scope, env credentials.Env) (*oauth2.Config, error) {
	if clientFile != "" {
		return credentials.ConfigFromClientFile(clientFile, scope)
	}

	clientID := env.Get(domaincreds.EnvClientID)
	clientSecret := env.Get(domaincreds.EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("no OAuth client configured: pass --client-file or set %s and %s",
			domaincreds.EnvClientID, domaincreds.EnvClientSecret)
	}
	return credentials.InstalledAppConfig(clientID, clientSecret, scope), nil
}
