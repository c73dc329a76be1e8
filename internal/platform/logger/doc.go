// Package logger provides structured logging functionality for the application.
//
// It builds log/slog loggers from configuration and carries request-scoped
// loggers through context.Context, so that handlers, services and stores log
// with the same trace attributes.
package logger
