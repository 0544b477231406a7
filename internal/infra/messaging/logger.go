package messaging

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
)

// slogAdapter routes watermill's internal logging through the application
// slog handler so broker noise shares the service's log format.
type slogAdapter struct {
	logger *slog.Logger
}

func NewWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return &slogAdapter{logger: logger}
}

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(attrs(fields), slog.Any("error", err))...)
}

func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, attrs(fields)...)
}

func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, attrs(fields)...)
}

func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{logger: a.logger.With(attrs(fields)...)}
}

func attrs(fields watermill.LogFields) []any {
	out := make([]any, 0, len(fields))
	for k, v := range fields {
		out = append(out, slog.Any(k, v))
	}
	return out
}
