package credentials

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"drive-image-upload/domain/credentials"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultCallbackAddr is where the consent redirect is received
const DefaultCallbackAddr = "localhost:8085"

// InstalledAppConfig builds an OAuth config for a desktop client ID
func InstalledAppConfig(clientID, clientSecret string, scope credentials.Scope) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{string(scope)},
	}
}

// ConfigFromClientFile reads an OAuth client JSON downloaded from the Cloud console
func ConfigFromClientFile(path string, scope credentials.Scope) (*oauth2.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth client file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, string(scope))
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth client file: %w", err)
	}
	return config, nil
}

// Authorize runs the consent flow in the browser and exchanges the code for a token.
// The returned token carries the refresh token to store in GOOGLE_REFRESH_TOKEN.
func Authorize(ctx context.Context, config *oauth2.Config, addr string, out io.Writer) (*oauth2.Token, error) {
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	if out == nil {
		out = io.Discard
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("unable to listen for OAuth callback: %w", err)
	}

	cfg := *config
	cfg.RedirectURL = "http://" + listener.Addr().String() + "/callback"

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeChan, errChan))
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sendErr(errChan, err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Opening browser for Google authentication...")
	fmt.Fprintln(out, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, authURL)
	fmt.Fprintln(out)

	openBrowser(authURL)

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("no refresh token returned; revoke the app's access and try again")
	}

	return token, nil
}

// callbackHandler forwards the authorization code from the redirect.
// Requests without the expected state are rejected and leave the flow waiting.
func callbackHandler(state string, codeChan chan<- string, errChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "Error: state mismatch", http.StatusBadRequest)
			return
		}

		if msg := r.URL.Query().Get("error"); msg != "" {
			sendErr(errChan, fmt.Errorf("authorization denied: %s", msg))
			fmt.Fprintf(w, "Error: %s", msg)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			sendErr(errChan, fmt.Errorf("no code in callback"))
			fmt.Fprintf(w, "Error: No authorization code received")
			return
		}
		sendCode(codeChan, code)
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
	}
}

// sendCode and sendErr never block once the first result is queued
func sendCode(ch chan<- string, code string) {
	select {
	case ch <- code:
	default:
	}
}

func sendErr(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		} else if _, err := exec.LookPath("wslview"); err == nil {
			// WSL
			cmd = exec.Command("wslview", url)
		}
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}

	if cmd != nil {
		cmd.Start()
	}
}
