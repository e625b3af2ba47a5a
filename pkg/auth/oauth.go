// Package auth authorizes archsync against Google Calendar with the
// installed-app OAuth flow and caches the token in the config directory.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	// ClientSecretsFile is the OAuth client downloaded from the Google Cloud
	// console, read from the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile caches the access and refresh token next to it.
	TokenFile = "token.json"

	// LocalhostAuthPort must match the redirect URI registered for the client.
	LocalhostAuthPort = "6789"

	authTimeout     = 5 * time.Minute
	exchangeTimeout = 30 * time.Second
)

// Scopes needed to publish events.
var Scopes = []string{
	calendar.CalendarEventsScope,
	calendar.CalendarReadonlyScope,
}

// TokenPath returns where the token is cached under dir.
func TokenPath(dir string) string {
	return filepath.Join(dir, TokenFile)
}

// GetConfig reads the client secrets in dir. Loopback redirects are pinned
// to LocalhostAuthPort.
func GetConfig(dir string, scopes []string) (*oauth2.Config, error) {
	path := filepath.Join(dir, ClientSecretsFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client secrets %s: %w", path, err)
	}
	cfg, err := google.ConfigFromJSON(raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	cfg.RedirectURL = localRedirect(cfg.RedirectURL)
	return cfg, nil
}

// localRedirect rewrites the out-of-band URN and loopback URIs to the
// callback listener. Anything else is returned unchanged.
func localRedirect(redirect string) string {
	if redirect == "urn:ietf:wg:oauth:2.0:oob" {
		return "http://localhost:" + LocalhostAuthPort + "/oauth2callback"
	}
	u, err := url.Parse(redirect)
	if err != nil {
		log.Printf("Warning: keeping unparseable redirect %q: %v", redirect, err)
		return redirect
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		log.Printf("Warning: redirect %s in %s is not a loopback address", redirect, ClientSecretsFile)
		return redirect
	}
	if p := u.Port(); p != "" && p != LocalhostAuthPort {
		log.Printf("Warning: redirect port %s replaced with %s", p, LocalhostAuthPort)
	}
	u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
	return u.String()
}

// GetClient returns an authenticated *http.Client. Without a cached token
// it runs the browser flow; a refreshed token is written back.
func GetClient(ctx context.Context, dir string, scopes []string) (*http.Client, error) {
	cfg, err := GetConfig(dir, scopes)
	if err != nil {
		return nil, err
	}

	path := TokenPath(dir)
	cached, err := loadToken(path)
	if err != nil {
		log.Printf("No usable token at %s (%v), starting browser authorization", path, err)
		if cached, err = authorize(ctx, cfg); err != nil {
			return nil, err
		}
		if err := storeToken(path, cached); err != nil {
			return nil, err
		}
	}

	src := cfg.TokenSource(ctx, cached)
	fresh, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	if fresh.AccessToken != cached.AccessToken || fresh.RefreshToken != cached.RefreshToken {
		if err := storeToken(path, fresh); err != nil {
			log.Printf("Warning: could not store refreshed token: %v", err)
		}
	}
	return oauth2.NewClient(ctx, src), nil
}

// callback receives the redirect of one authorization attempt.
type callback struct {
	state string
	codes chan string
	errs  chan error
}

func (c *callback) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var err error
	switch {
	case q.Get("error") != "":
		err = fmt.Errorf("authorization denied: %s", q.Get("error"))
	case q.Get("state") != c.state:
		err = errors.New("authorization state mismatch")
	case q.Get("code") == "":
		err = errors.New("no authorization code in redirect")
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		select {
		case c.errs <- err:
		default:
		}
		return
	}
	fmt.Fprintln(w, "archsync is authorized. You can close this window.")
	select {
	case c.codes <- q.Get("code"):
	default:
	}
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// authorize prints the consent URL and waits for the redirect on the
// loopback listener.
func authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	state, err := newState()
	if err != nil {
		return nil, err
	}
	cb := &callback{state: state, codes: make(chan string, 1), errs: make(chan error, 1)}

	ln, err := net.Listen("tcp", ":"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", LocalhostAuthPort, err)
	}
	srv := &http.Server{Handler: cb, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case cb.errs <- fmt.Errorf("callback server: %w", err):
			default:
			}
		}
	}()
	defer srv.Shutdown(context.Background())

	fmt.Printf("Open this URL in your browser to authorize archsync:\n%s\n",
		cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")))

	wait, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()
	select {
	case code := <-cb.codes:
		exCtx, exCancel := context.WithTimeout(ctx, exchangeTimeout)
		defer exCancel()
		tok, err := cfg.Exchange(exCtx, code)
		if err != nil {
			return nil, fmt.Errorf("exchange authorization code: %w", err)
		}
		return tok, nil
	case err := <-cb.errs:
		return nil, err
	case <-wait.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", wait.Err())
	}
}

func loadToken(path string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", path, err)
	}
	return &tok, nil
}

// storeToken writes the token with owner-only permissions via a temp file.
func storeToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// ResetToken removes a cached token so the next GetClient re-authorizes.
func ResetToken(dir string) error {
	if err := os.Remove(TokenPath(dir)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// GetCalendarService returns an authenticated Calendar API service.
func GetCalendarService(ctx context.Context, dir string) (*calendar.Service, error) {
	client, err := GetClient(ctx, dir, Scopes)
	if err != nil {
		return nil, fmt.Errorf("calendar auth: %w", err)
	}
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return srv, nil
}
