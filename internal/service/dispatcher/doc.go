// Package dispatcher implements the alert dispatch pipeline.
//
// For every alert in a batch it builds the message text, acquires an access
// token, resolves the team (falling back to the fixed default team) and
// invokes the sender once per member in list order. Failures are isolated:
// a credential failure aborts only the current alert, a rejected delivery
// only the current recipient.
package dispatcher
