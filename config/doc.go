// Package config loads the negotiator configuration from a YAML file,
// NEGOTIATOR_ prefixed environment variables and command-line flags, and
// validates it before the server starts.
package config
