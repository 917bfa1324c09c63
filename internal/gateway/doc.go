// Package gateway serves an http.Handler over FastCGI, either on the
// inherited stdin socket (pipe mode, the web server spawns the process) or on
// a TCP listener the process binds itself.
package gateway
