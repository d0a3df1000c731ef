// Package config defines service settings and provides helpers to load,
// validate and save them in YAML format.
//
// The Config type covers the webhook listen address, the Redis token cache,
// the identity provider credentials, the SMS gateway and the contact
// directory location. Every field can be overridden through ALERT_RELAY_*
// environment variables, so containerized deployments can skip the file.
package config
