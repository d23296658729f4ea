// Package logging builds the application's logrus logger.
package logging

import (
	"io"
	"os"

	"blogdesk/config"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger writing to stdout. Development gets
// human-readable text, every other environment JSON. An unparsable level
// falls back to info.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(os.Stdout, cfg)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(out io.Writer, cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	if cfg.IsDevelopment() {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	logger.WithFields(logrus.Fields{"app": cfg.AppName, "env": cfg.Env, "level": lvl.String()}).Debug("logger initialized")
	return logger
}

// LogError logs msg at error level with err and any extra fields attached.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	logger.WithFields(fields).Error(msg)
}
