package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/daytrip/migrations"
	"github.com/pkordes/daytrip/testutil"
)

// TestMain applies the migrations to the Postgres test database once for the
// whole binary when TEST_DATABASE_URL is set. SQLite tests migrate their own
// temporary databases and always run.
func TestMain(m *testing.M) {
	if os.Getenv(testutil.DSNEnv) == "" {
		os.Exit(m.Run())
	}

	db := testutil.MustOpenSQLDB(os.Getenv(testutil.DSNEnv))
	if _, err := migrations.Up(context.Background(), db, goose.DialectPostgres); err != nil {
		db.Close()
		log.Fatalf("TestMain: run migrations: %v", err)
	}
	db.Close()

	os.Exit(m.Run())
}
