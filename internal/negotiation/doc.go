// Package negotiation selects parsers and renderers for an HTTP request
// following RFC 2616 §14.1.
//
// Two negotiators are provided:
//
//   - Default: ranks the Accept list by precedence, honours format suffixes
//     and the ?format= and ?accept= query overrides
//   - IgnoreClient: always answers with the first registered candidate
//
// Negotiators hold only immutable configuration and can be shared across
// goroutines.
package negotiation
