package errors

import (
	"boilerplate/internal/privacy"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with structured error logging
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger
func NewLogger() *Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	return &Logger{Logger: logger}
}

// LogError logs an error with structured context
func (l *Logger) LogError(err error, message string, fields ...logrus.Fields) {
	l.entry(err, fields).Error(message)
}

// LogWarn logs a warning with structured context
func (l *Logger) LogWarn(err error, message string, fields ...logrus.Fields) {
	l.entry(err, fields).Warn(message)
}

// entry merges caller fields into the error entry after masking them.
func (l *Logger) entry(err error, fields []logrus.Fields) *logrus.Entry {
	entry := l.WithError(err)
	for _, field := range fields {
		entry = entry.WithFields(privacy.MaskSensitiveFields(field))
	}
	return entry
}

// WithContext adds context fields to subsequent log entries
func (l *Logger) WithContext(fields logrus.Fields) *logrus.Entry {
	return l.Logger.WithFields(fields)
}

// WithError adds an error to subsequent log entries. AppError codes and
// context become fields; sensitive context values are masked.
func (l *Logger) WithError(err error) *logrus.Entry {
	entry := l.Logger.WithError(err)

	if appErr, ok := As(err); ok {
		entry = entry.WithField("error_code", appErr.Code)
		for k, v := range appErr.Context {
			if privacy.IsSensitiveKey(k) {
				v = privacy.MaskSecret(toString(v))
			}
			entry = entry.WithField(k, v)
		}
	}

	return entry
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
