package simlog

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	// Keep decode warnings visible, drop debug chatter.
	// Set DEBUG_TESTS=1 to see full logs: DEBUG_TESTS=1 go test ./simlog/... -v
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.WarnLevel)
	}
	os.Exit(m.Run())
}
