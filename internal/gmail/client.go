package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/averyhq/avery/internal/google"
)

// Client wraps the Gmail API for a single connected account. It covers the
// assistant's narrow needs: drafting and sending scheduling emails.
type Client struct {
	svc   *gmail.UsersService
	email string
}

// Email returns the account email this client is associated with.
func (c *Client) Email() string {
	return c.email
}

// NewClientForEmail creates a Gmail client authenticated as the account
// identified by email, using the provided token provider.
func NewClientForEmail(ctx context.Context, email string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account: %w", err)
	}

	conf, err := google.OAuthConfig()
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	// Force HTTP/1.1, some Google endpoints misbehave over HTTP/2.
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{ForceAttemptHTTP2: false}
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{svc: svc.Users, email: email}, nil
}

// NewClient creates a Gmail client using the default file-based token
// provider.
func NewClient(ctx context.Context, email string) (*Client, error) {
	return NewClientForEmail(ctx, email, google.NewFileTokenProvider())
}

// CreateDraft creates a draft message in the account's mailbox and returns
// the draft ID.
func (c *Client) CreateDraft(ctx context.Context, msg *Message) (string, error) {
	raw, err := buildRawMessage(msg)
	if err != nil {
		return "", err
	}

	draft, err := c.svc.Drafts.Create("me", &gmail.Draft{
		Message: &gmail.Message{Raw: raw},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}
	return draft.Id, nil
}

// Send sends a message immediately and returns the message ID.
func (c *Client) Send(ctx context.Context, msg *Message) (string, error) {
	raw, err := buildRawMessage(msg)
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

// buildRawMessage renders msg as a base64url-encoded RFC 2822 message.
func buildRawMessage(msg *Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("at least one recipient is required")
	}
	if msg.Subject == "" {
		return "", fmt.Errorf("subject is required")
	}
	if msg.Body == "" {
		return "", fmt.Errorf("body is required")
	}

	var b strings.Builder
	b.WriteString("To: ")
	b.WriteString(strings.Join(msg.To, ", "))
	b.WriteString("\r\n")

	if len(msg.Cc) > 0 {
		b.WriteString("Cc: ")
		b.WriteString(strings.Join(msg.Cc, ", "))
		b.WriteString("\r\n")
	}

	// Encode the subject for non-ASCII characters like umlauts.
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(msg.Subject))
	b.WriteString("\r\n")

	if msg.IsHTML {
		b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String())), nil
}

// encodeRFC2047 encodes a string for use in email headers according to RFC 2047.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > 127 {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}
