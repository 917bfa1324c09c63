// Package logger builds the structured slog logger shared by the process.
// Production output is JSON, every other environment gets the text handler,
// and each record carries the environment name.
package logger
