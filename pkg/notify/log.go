package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

var _ Sink = &LogSink{}

// LogSink writes alerts to the log. Useful on headless machines.
type LogSink struct {
	logger logrus.FieldLogger
}

// NewLogSink returns a LogSink writing to logger, or to the standard
// logger if logger is nil.
func NewLogSink(logger logrus.FieldLogger) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{logger: logger}
}

func (l *LogSink) Alert(_ context.Context, title, message string) error {
	l.logger.WithField("title", title).Warn(message)
	return nil
}
