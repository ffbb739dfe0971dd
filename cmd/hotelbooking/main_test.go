package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainrooms "hotelbooking/internal/domain/rooms"
	"hotelbooking/internal/infra/config"
	"hotelbooking/internal/infra/storage/memory"
)

// writeEnv writes an env file and clears the listed variables so the file
// decides their values.
func writeEnv(t *testing.T, content string, keys ...string) string {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSetupBuildsLoggerFromEnvFile(t *testing.T) {
	path := writeEnv(t, "APP_ENV=test\n", "APP_ENV", "STORE_BACKEND", "NOTIFY_SINK")

	cfg, logger, err := setup(path)
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestRunReturnsConfigurationErrors(t *testing.T) {
	path := writeEnv(t, "APP_ENV=test\nSTORE_BACKEND=cassandra\n", "APP_ENV", "STORE_BACKEND", "NOTIFY_SINK")

	err := run(context.Background(), path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestReloadingSeedKeepsStoredState(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{Env: "test", StoreBackend: config.BackendMemory, NotifySink: config.SinkLog}

	app, err := buildApplication(ctx, cfg, logger)
	require.NoError(t, err)
	defer app.close(logger)

	path := filepath.Join("..", "..", "configs", "seed.toml")
	first, err := app.loadSeed(ctx, path, logger)
	require.NoError(t, err)
	assert.Positive(t, first.Rooms)
	assert.Positive(t, first.Rules)
	assert.Positive(t, first.Branches)
	assert.Zero(t, first.Existing)

	rooms, ok := app.seed.Rooms.(*memory.RoomRepository)
	require.True(t, ok)
	require.NoError(t, rooms.CompareAndSetAvailability(ctx, "blr-101", domainrooms.Available, domainrooms.Unavailable))

	second, err := app.loadSeed(ctx, path, logger)
	require.NoError(t, err)
	assert.Zero(t, second.Rooms)
	assert.Zero(t, second.Rules)
	assert.Zero(t, second.Branches)
	assert.Equal(t, first.Rooms+first.Rules+first.Branches, second.Existing)

	room, err := rooms.ByID(ctx, "blr-101")
	require.NoError(t, err)
	assert.Equal(t, domainrooms.Unavailable, room.Availability)
}
