package routes

import (
	"os"
	"testing"

	"guardiannet-http-service/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.SetupLogger(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
