//go:build integration

package app

import (
	"os"
	"testing"
	"time"

	"github.com/guttosm/nutriplan-service/config"
	"github.com/guttosm/nutriplan-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithSharedMongo(m))
}

// integrationDatabaseConfig points the app at a database private to t.
func integrationDatabaseConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()

	return config.DatabaseConfig{
		URI:                            testutil.SharedMongoURI(),
		DatabaseName:                   testutil.DatabaseName(t),
		LogsTTL:                        30 * 24 * time.Hour,
		Enabled:                        true,
		CircuitBreakerFailureThreshold: 5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,
	}
}
