package persistence

import (
	"context"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRunMigrationsWithoutPoolIsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	err := RunMigrations(context.Background(), nil, "does-not-exist", zap.New(core))
	require.NoError(t, err)
	require.Equal(t, 1, logs.FilterMessage("no postgres pool available; skipping migrations").Len())
}

func TestMigrationsDirectoryIsGooseCompatible(t *testing.T) {
	migrations, err := goose.CollectMigrations("../../migrations", 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	require.Equal(t, int64(1), migrations[0].Version)
}

func TestGooseLoggerWritesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	gooseLogger{zap.New(core).Sugar()}.Printf("OK   %s\n", "001_init.sql")
	require.Equal(t, 1, logs.FilterMessage("OK   001_init.sql").Len())
}
