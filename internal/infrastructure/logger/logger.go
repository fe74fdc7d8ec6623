package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the standard logrus logger used across the service:
// JSON output, level from LOG_LEVEL and a fixed service field.
func Setup(serviceName string) *logrus.Entry {
	return configure(logrus.StandardLogger(), serviceName, os.Stdout, os.Getenv("LOG_LEVEL"))
}

func configure(log *logrus.Logger, serviceName string, out io.Writer, level string) *logrus.Entry {
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(out)
	log.SetLevel(parseLevel(level))

	return log.WithField("service", serviceName)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Component returns an entry tagged with the emitting component, e.g. "qpay.handler".
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
