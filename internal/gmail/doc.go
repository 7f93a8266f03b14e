// Package gmail provides a minimal Gmail client for the assistant's
// outgoing mail: creating drafts for user review and sending confirmed
// scheduling emails. One client per connected account email.
package gmail
