// Package handler implements the sort page request handler. It parses the
// sort parameter, fetches active trips on a pooled connection, orders them and
// writes the rendered page.
package handler
