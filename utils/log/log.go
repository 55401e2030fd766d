package log

import (
	"os"

	"github.com/sirupsen/logrus"

	Flag "github.com/cryptopulse/cryptopulse/utils/flag"
)

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	if os.Getenv("CRYPTOPULSE_ENV") == "prod" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	Log = logger.WithFields(
		logrus.Fields{"service": Flag.ServiceName, "is_development": os.Getenv("CRYPTOPULSE_ENV") != "prod"},
	)
}
