package app

import (
	"log/slog"

	"github.com/treykane/cli-notes-suggest/internal/logging"
)

// appLog is the package-level structured logger for the app package, tagged
// with component "app".
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message and
// logs a structured error entry with full context.
//
// The status parameter is displayed verbatim in the UI, while the err and any
// additional key-value attrs are included only in the log entry:
//
//	m.setStatusError("Error saving document", err, "path", m.docPath)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
