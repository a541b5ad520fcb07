package main

import (
	"testing"

	"github.com/sdko-org/vertical-padding/internal/config"
	"github.com/sdko-org/vertical-padding/internal/observability"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func discardLogger() *logrus.Logger {
	return observability.NewDiscardLogger()
}
