package gmail

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildRawMessage(t *testing.T) {
	raw, err := buildRawMessage(&Message{
		To:      []string{"a@example.com", "b@example.com"},
		Cc:      []string{"c@example.com"},
		Subject: "Meeting options for Tuesday",
		Body:    "Here are three slots that work.",
	})
	if err != nil {
		t.Fatalf("buildRawMessage() error = %v", err)
	}

	decoded, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		t.Fatalf("raw message is not base64url: %v", err)
	}
	msg := string(decoded)

	for _, want := range []string{
		"To: a@example.com, b@example.com\r\n",
		"Cc: c@example.com\r\n",
		"Subject: Meeting options for Tuesday\r\n",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
		"\r\n\r\nHere are three slots that work.",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildRawMessage_HTML(t *testing.T) {
	raw, err := buildRawMessage(&Message{
		To:      []string{"a@example.com"},
		Subject: "s",
		Body:    "<p>hi</p>",
		IsHTML:  true,
	})
	if err != nil {
		t.Fatalf("buildRawMessage() error = %v", err)
	}
	decoded, _ := base64.URLEncoding.DecodeString(raw)
	if !strings.Contains(string(decoded), "Content-Type: text/html") {
		t.Error("HTML message should carry a text/html content type")
	}
}

func TestBuildRawMessage_Validation(t *testing.T) {
	tests := []struct {
		name string
		msg  *Message
	}{
		{"no recipients", &Message{Subject: "s", Body: "b"}},
		{"no subject", &Message{To: []string{"a@example.com"}, Body: "b"}},
		{"no body", &Message{To: []string{"a@example.com"}, Subject: "s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := buildRawMessage(tt.msg); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestEncodeRFC2047(t *testing.T) {
	if got := encodeRFC2047("plain ascii"); got != "plain ascii" {
		t.Errorf("ASCII subject should pass through, got %q", got)
	}
	got := encodeRFC2047("Grüße aus Köln")
	if !strings.HasPrefix(got, "=?UTF-8?") {
		t.Errorf("non-ASCII subject should be RFC 2047 encoded, got %q", got)
	}
}
