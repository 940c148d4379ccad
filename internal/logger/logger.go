package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Field names shared by every component.
const (
	FieldComponent = "component"
	FieldOwner     = "owner"
	FieldExpenseID = "expense_id"
	FieldOperation = "op"
	FieldSession   = "session"
)

// New returns a JSON logger writing to out at logLevel.
func New(logLevel string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.Warnf("unknown log level %q, use info", logLevel)
	}
	log.SetLevel(level)

	return log
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
