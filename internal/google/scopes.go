package google

// DefaultOAuthScopes are the Google OAuth scopes the assistant requests
// when connecting an account.
//
// The scopes provide access to:
//   - Google Calendar: event read and create
//   - Gmail: draft and send
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scopes
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/calendar.events",

	// Gmail scopes
	"https://www.googleapis.com/auth/gmail.compose",
	"https://www.googleapis.com/auth/gmail.send",
}
