// Package logger builds the application slog logger: text output in
// development, JSON in production, optionally written to a rotated file.
package logger
