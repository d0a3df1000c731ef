// Package token implements access token acquisition.
//
// The Provider consults the shared credential cache first and performs a
// form-encoded client-credentials exchange against the identity provider on
// a miss, storing the result with a fixed validity window. A rejected
// exchange surfaces as ErrAuthFailure.
package token
