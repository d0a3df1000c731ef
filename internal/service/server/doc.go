// Package server wires the relay together and runs the webhook HTTP server.
//
// Run loads configuration, builds the contact directory, token cache, token
// provider, SMS sender and dispatcher, mounts the router and serves until
// the context is canceled, shutting down gracefully.
package server
