// Package render turns an ordered trip list into the sort page HTML. The
// bundled template is parsed once by New; the resulting Renderer is immutable
// and safe for concurrent use.
package render
