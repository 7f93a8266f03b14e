// Package google provides OAuth2 authentication and token management for
// Google APIs.
//
// Tokens are stored one file per connected account email under the user
// cache directory, which makes the email the locator for the account's
// credentials. The TokenProvider interface allows other token sources to
// be plugged in for transports that manage OAuth externally.
package google
