//go:build integration

// Package pgtest starts a throwaway Postgres container for integration tests.
package pgtest

import (
	"context"
	"testing"
	"time"

	"github.com/sdko-org/vertical-padding/internal/database"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// Start runs Postgres and returns a migrated, connected handle.
// The container is removed when the test ends.
func Start(t *testing.T) *gorm.DB {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("padstop"),
		postgres.WithUsername("padstop"),
		postgres.WithPassword("padstop"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(ctr)
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(observability.NewDiscardLogger(), dsn, "testcontainer", "padstop")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
