// Package handler serves negotiated responses over HTTP. GET /negotiate
// reports the negotiation outcome and POST /echo parses the request body and
// renders it back. Both accept a format suffix such as /negotiate.json.
package handler
