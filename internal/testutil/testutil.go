package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/studycoach/internal/db"
	"github.com/vytor/studycoach/internal/logger"
)

// NewTestDB opens an in-memory SQLite database with all migrations applied.
// Logging is silenced to WARN so test output stays readable.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	logger.SetDefault(logger.New(logger.WithLevel(logger.WARN), logger.WithColors(false)))

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
