// Package token implements the shared credential cache.
//
// The Store interface exposes atomic get/set with a validity window. The
// Redis implementation shares one token across relay instances under the
// fixed key "oidc_token"; the in-memory implementation mirrors the TTL
// semantics for tests and single-instance runs.
package token
