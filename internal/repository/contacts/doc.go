// Package contacts implements the static contact directory.
//
// The FileDirectory loads a JSON mapping of team identifiers to contact lists
// once at startup and exposes a read-only Resolve operation that the
// dispatcher depends on through the Directory interface.
package contacts
