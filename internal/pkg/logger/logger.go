// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured for the given mode: human-readable text
// at debug level in dev, JSON at info level otherwise.
func New(mode string) *logrus.Logger {
	return NewWithOutput(mode, os.Stdout)
}

// NewWithOutput is New with an explicit writer
func NewWithOutput(mode string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if mode == "dev" {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		return log
	}

	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log
}

// Component returns an entry tagged with the component name
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// Discard returns an entry that writes nowhere, for tests
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
