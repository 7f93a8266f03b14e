package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

// TokenProvider is an interface for providing OAuth tokens for Google APIs,
// keyed by the calendar account email. The abstraction allows different
// token sources (file-based for STDIO, an external store for HTTP).
type TokenProvider interface {
	// GetTokenForEmail retrieves an OAuth token for the specified account email
	GetTokenForEmail(ctx context.Context, email string) (*oauth2.Token, error)

	// HasTokenForEmail checks if a token exists for the specified account email
	HasTokenForEmail(email string) bool
}

// FileTokenProvider provides tokens from disk files (for STDIO transport).
type FileTokenProvider struct{}

// NewFileTokenProvider creates a new file-based token provider.
func NewFileTokenProvider() *FileTokenProvider {
	return &FileTokenProvider{}
}

// GetTokenForEmail retrieves a token from disk for the specified account email.
func (p *FileTokenProvider) GetTokenForEmail(ctx context.Context, email string) (*oauth2.Token, error) {
	ts, err := TokenSourceForEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to get token from file: %w", err)
	}
	return token, nil
}

// HasTokenForEmail checks if a token file exists for the specified account email.
func (p *FileTokenProvider) HasTokenForEmail(email string) bool {
	return HasTokenForEmail(email)
}
