package logging

import "github.com/rs/zerolog"

// ClientLogger adapts a zerolog.Logger to the printf-style interface the
// SensorThings client accepts.
type ClientLogger struct {
	logger zerolog.Logger
}

// ForClient wraps a zerolog.Logger for injection into the API client.
func ForClient(logger zerolog.Logger) ClientLogger {
	return ClientLogger{logger: logger}
}

// Debugf implements the client Logger interface.
func (l ClientLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(format, args...)
}

// Errorf implements the client Logger interface.
func (l ClientLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(format, args...)
}
