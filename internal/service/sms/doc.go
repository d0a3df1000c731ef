// Package sms implements delivery of single messages through the SMS gateway.
//
// The Sender posts a JSON payload with a bearer authorization header and a
// unique request-id. A non-success gateway response surfaces as
// ErrDeliveryFailure; there is no automatic retry.
package sms
