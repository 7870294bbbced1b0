package orders

import (
	"context"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("THREADCART_DB_DSN")
	if dsn == "" {
		t.Skip("THREADCART_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

// rollbackRunner executes every WithTx call inside the surrounding test
// transaction so test data never commits.
type rollbackRunner struct {
	tx *gorm.DB
}

func (r rollbackRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(r.tx)
}
