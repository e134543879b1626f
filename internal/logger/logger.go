package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Format is "json" or "text"; unknown levels fall back to info.
func New(service, level, format string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	hostname, _ := os.Hostname()
	return log.WithFields(logrus.Fields{
		"service":  service,
		"hostname": hostname,
	})
}
