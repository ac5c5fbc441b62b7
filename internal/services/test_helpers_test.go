package services_test

import (
	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Email: config.EmailConfig{
			From:        "site@trucklogix.test",
			To:          "sales@trucklogix.test",
			CompanyName: "TruckLogix",
		},
	}
}
