// Package alert contains core domain types for the alert relay business logic.
//
// It defines Alert (one inbound notification), Batch (an ordered sequence of
// alerts from one webhook call), Contact and Team with helpers that default
// optional fields explicitly at the boundary.
package alert
