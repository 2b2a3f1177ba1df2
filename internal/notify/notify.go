// Package notify is the fire-and-forget user notification channel.
// The core reports outcomes through a Notifier and never inspects the
// result; hosts decide whether a notice reaches a log line, an SSE
// stream, or nowhere.
package notify

import "log/slog"

// Notifier displays a message to the user.
type Notifier interface {
	Notify(message string)
}

// Func adapts a plain function to the Notifier interface.
type Func func(message string)

// Notify calls f.
func (f Func) Notify(message string) { f(message) }

// Discard drops all notices.
var Discard Notifier = Func(func(string) {})

// Log writes notices to the structured log.
type Log struct {
	logger *slog.Logger
}

// NewLog creates a Log notifier. A nil logger uses the default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{logger: logger}
}

// Notify logs the message.
func (l *Log) Notify(message string) {
	l.logger.Info("notice", slog.String("message", message))
}
