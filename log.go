package grf

import (
	"context"
	"io"
	"log/slog"
)

// pkgLogger is the package-wide logging hook. It defaults to a logger that
// discards every record (a no-op until the application calls SetLogger),
// matching the convention that libraries never force their own logging
// policy onto a host application.
var pkgLogger = discardLogger()

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetLogger replaces the logger used for diagnostic messages (load events,
// table parse warnings, extraction failures). Pass nil to restore the
// discarding default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discardLogger()
	}
	pkgLogger = l
}

func logDebug(ctx context.Context, msg string, args ...any) {
	pkgLogger.DebugContext(ctx, msg, args...)
}

func logWarn(ctx context.Context, msg string, args ...any) {
	pkgLogger.WarnContext(ctx, msg, args...)
}
