package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// SetUp configures the standard logrus logger. Text output carries full
// timestamps; json switches to one JSON object per line.
func SetUp(logLevel string, json bool, out io.Writer) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	if out != nil {
		logrus.SetOutput(out)
	}
	if json {
		logrus.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
		return nil
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}
