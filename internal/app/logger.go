package app

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"corelink/internal/logging"
)

// newLogger builds a logrus.Logger leveled from verbose, optionally tee'd
// into a rotating on-disk log under logDir. The returned rotator is nil
// when logDir is empty; callers that get one back are responsible for
// Close()ing it on shutdown.
func newLogger(logDir string, rotateUTC, verbose bool) (*logrus.Logger, *logging.LogRotator, error) {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if logDir == "" {
		return logger, nil, nil
	}

	rotator, err := logging.NewLogRotator(logDir, rotateUTC, logger)
	if err != nil {
		return nil, nil, err
	}

	writer, err := rotator.GetWriter()
	if err != nil {
		return nil, nil, err
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))

	return logger, rotator, nil
}
