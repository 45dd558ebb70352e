package testutil

import (
	"testing"

	"github.com/vytor/studycards/internal/db"
)

// NewTestDB opens a fresh in-memory SQLite database with migrations applied.
// Each call gets its own database; the connection is closed on test cleanup.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return database
}
