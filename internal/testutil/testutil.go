// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"testing"

	"BlogPlatform/database"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Logger returns a logger that discards everything.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// OpenTestDB opens a private, fully migrated in-memory sqlite database. It is
// closed when the test ends.
func OpenTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())

	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: dsn}, Logger())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
