// Package webhook implements the HTTP transport for the alert relay.
//
// It parses inbound alert-notification payloads into domain types, rejecting
// bodies that do not match the expected shape, and calls into a provided
// dispatcher interface. The router also exposes /healthz and /metrics.
package webhook
