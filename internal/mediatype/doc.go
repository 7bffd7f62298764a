// Package mediatype parses media-type expressions as found in Content-Type
// and Accept headers (RFC 2616 §3.7) and ranks them for content negotiation.
//
// Parsing is best-effort and never rejects a header on structure alone.
// A MediaType answers two questions: whether a handler declaring it accepts
// content described by another expression (Match), and how specific and
// preferred it is (Precedence).
package mediatype
