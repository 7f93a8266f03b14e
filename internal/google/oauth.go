package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variables carrying the OAuth client credentials.
const (
	EnvClientID     = "AVERY_GOOGLE_CLIENT_ID"
	EnvClientSecret = "AVERY_GOOGLE_CLIENT_SECRET"
)

const tokenFileSuffix = ".token.json"

// OAuthConfig builds the OAuth2 configuration from the environment.
func OAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(EnvClientID)
	clientSecret := os.Getenv(EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%s and %s must be set", EnvClientID, EnvClientSecret)
	}
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  oob,
		Scopes:       DefaultOAuthScopes,
	}, nil
}

// AuthURL returns the URL a user visits to authorize access for one account.
func AuthURL() (string, error) {
	conf, err := OAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code and persists the resulting
// token for email.
func SaveToken(ctx context.Context, email, authCode string) error {
	conf, err := OAuthConfig()
	if err != nil {
		return err
	}
	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	dir := tokenDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(tokenPath(email), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// HasTokenForEmail checks whether a stored token exists for email.
func HasTokenForEmail(email string) bool {
	_, err := os.Stat(tokenPath(email))
	return err == nil
}

// RemoveToken deletes the stored token for email, if any.
func RemoveToken(email string) error {
	err := os.Remove(tokenPath(email))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// ConnectedEmails lists the emails with stored tokens.
func ConnectedEmails() ([]string, error) {
	entries, err := os.ReadDir(tokenDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list token directory: %w", err)
	}
	var emails []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, tokenFileSuffix) {
			continue
		}
		emails = append(emails, strings.TrimSuffix(name, tokenFileSuffix))
	}
	return emails, nil
}

// TokenSourceForEmail returns a refreshing token source for email's stored
// token.
func TokenSourceForEmail(ctx context.Context, email string) (oauth2.TokenSource, error) {
	conf, err := OAuthConfig()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(tokenPath(email))
	if err != nil {
		return nil, fmt.Errorf("no stored token for account: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}
	return conf.TokenSource(ctx, &token), nil
}

func tokenPath(email string) string {
	return filepath.Join(tokenDir(), escapeEmail(email)+tokenFileSuffix)
}

func tokenDir() string {
	return filepath.Join(userCacheDir(), "avery")
}

// escapeEmail makes an email safe as a file name component.
func escapeEmail(email string) string {
	return strings.ReplaceAll(email, "/", "_")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
