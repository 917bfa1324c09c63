// Package strategy maps the sort page's "sort" query parameter to an ordering
// of trips:
//
//   - county: ascending by county name
//   - waterway: ascending by waterway name (default for any other value)
//
// Comparison is bytewise. No secondary key is applied, so trips sharing the
// sort field may come back in any relative order.
package strategy
