package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"runtime"

	"mashup/domain/notification"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// callbackAddr is where the local OAuth redirect listener binds
const callbackAddr = "localhost:8085"

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string // Path to OAuth client credentials JSON
	TokenFile       string // Path to store/load token
}

func newOAuthGmailService(ctx context.Context, cfg OAuthConfig) (*GoogleGmailService, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	token, err := getToken(ctx, config, cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	// Token refreshes must keep working after the ctx that built the service ends
	base := context.WithoutCancel(ctx)
	srv, err := gmail.NewService(base, option.WithHTTPClient(config.Client(base, token)))
	if err != nil {
		return nil, fmt.Errorf("unable to create gmail service: %w", err)
	}

	return &GoogleGmailService{service: srv}, nil
}

// getToken retrieves a token from file or initiates the OAuth flow
func getToken(ctx context.Context, config *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	if token, err := loadToken(tokenFile); err == nil {
		fresh, err := config.TokenSource(ctx, token).Token()
		if err == nil {
			if fresh.AccessToken != token.AccessToken {
				if err := saveToken(tokenFile, fresh); err != nil {
					slog.Warn("could not persist refreshed token", "file", tokenFile, "error", err)
				}
			}
			return fresh, nil
		}
		slog.Info("stored token rejected, re-authenticating", "error", err)
	}

	return getTokenFromWeb(ctx, config, tokenFile)
}

func loadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

func saveToken(file string, token *oauth2.Token) error {
	f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// getTokenFromWeb runs the installed-app consent flow with a local callback
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	config.RedirectURL = "http://" + callbackAddr + "/callback"

	state := uuid.NewString()
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", callbackHandler(state, codeChan, errChan))
	server := &http.Server{Addr: callbackAddr, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			report(errChan, err)
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Println()
	fmt.Println("Opening browser for Google authentication...")
	fmt.Println("If the browser doesn't open, please visit this URL:")
	fmt.Println()
	fmt.Println(authURL)
	fmt.Println()

	openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}

	if err := saveToken(tokenFile, token); err != nil {
		slog.Warn("could not save token", "file", tokenFile, "error", err)
	}

	fmt.Println("Authentication successful!")
	return token, nil
}

// callbackHandler accepts the first redirect carrying state and a code.
// Later hits are answered but never block on the channels.
func callbackHandler(state string, codeChan chan<- string, errChan chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "Error: state mismatch", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Error: No authorization code received", http.StatusBadRequest)
			report(errChan, fmt.Errorf("no code in callback"))
			return
		}
		select {
		case codeChan <- code:
		default:
		}
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window.</p></body></html>")
	}
}

func report(errChan chan<- error, err error) {
	select {
	case errChan <- err:
	default:
	}
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		} else if _, err := exec.LookPath("wslview"); err == nil {
			cmd = exec.Command("wslview", url)
		}
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}

	if cmd != nil {
		_ = cmd.Start()
	}
}

// NewClientWithOAuth creates a Gmail client authorized for sending as the
// account that owns the token. Credentials are loaded, and the consent flow
// run if needed, on the first Send.
func NewClientWithOAuth(credentialsPath, tokenPath string, from notification.Recipient, opts ...ClientOption) *Client {
	cfg := OAuthConfig{
		CredentialsFile: credentialsPath,
		TokenFile:       tokenPath,
	}
	resolve := func(ctx context.Context) (GmailService, error) {
		return newOAuthGmailService(ctx, cfg)
	}
	return NewClient(from, append([]ClientOption{WithServiceResolver(resolve)}, opts...)...)
}
