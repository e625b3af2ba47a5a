package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestFixRedirectURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"urn:ietf:wg:oauth:2.0:oob", "http://localhost:6789/oauth2callback"},
		{"http://localhost", "http://localhost:6789"},
		{"http://localhost:8080/cb", "http://localhost:6789/cb"},
		{"http://127.0.0.1/cb", "http://127.0.0.1:6789/cb"},
		{"https://example.com/cb", "https://example.com/cb"},
	}
	for _, tt := range tests {
		if got := localRedirect(tt.in); got != tt.want {
			t.Errorf("localRedirect(%q): Expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archsync")
	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := storeToken(TokenPath(dir), tok); err != nil {
		t.Fatalf("storeToken failed: %v", err)
	}
	info, err := os.Stat(TokenPath(dir))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600, got %v", info.Mode().Perm())
	}
	got, err := loadToken(TokenPath(dir))
	if err != nil {
		t.Fatalf("loadToken failed: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" || !got.Expiry.Equal(tok.Expiry) {
		t.Errorf("Expected %+v, got %+v", tok, got)
	}

	if err := ResetToken(dir); err != nil {
		t.Fatalf("ResetToken failed: %v", err)
	}
	if err := ResetToken(dir); err != nil {
		t.Errorf("Expected second ResetToken to be a no-op, got %v", err)
	}
}

func TestGetConfigMissingSecrets(t *testing.T) {
	if _, err := GetConfig(t.TempDir(), Scopes); err == nil {
		t.Error("Expected error without credentials.json")
	}
}

func TestCallbackChecksState(t *testing.T) {
	tests := []struct {
		query    string
		wantCode string
		wantErr  bool
	}{
		{"state=s1&code=abc", "abc", false},
		{"state=other&code=abc", "", true},
		{"state=s1", "", true},
		{"error=access_denied&state=s1", "", true},
	}
	for _, tt := range tests {
		cb := &callback{state: "s1", codes: make(chan string, 1), errs: make(chan error, 1)}
		rec := httptest.NewRecorder()
		cb.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth2callback?"+tt.query, nil))

		if tt.wantErr {
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: Expected 400, got %d", tt.query, rec.Code)
			}
			if len(cb.errs) != 1 {
				t.Errorf("%s: Expected an error to be reported", tt.query)
			}
			continue
		}
		select {
		case code := <-cb.codes:
			if code != tt.wantCode {
				t.Errorf("%s: Expected code %q, got %q", tt.query, tt.wantCode, code)
			}
		default:
			t.Errorf("%s: Expected a code to be delivered", tt.query)
		}
	}
}

func TestNewStateIsRandom(t *testing.T) {
	a, err := newState()
	if err != nil {
		t.Fatalf("newState failed: %v", err)
	}
	b, _ := newState()
	if len(a) != 32 || a == b {
		t.Errorf("Expected two distinct 32-char states, got %q and %q", a, b)
	}
}
