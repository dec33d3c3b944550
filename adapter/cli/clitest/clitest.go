// Package clitest wires a CLI app against a throwaway SQLite database for
// command tests.
package clitest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	internalApp "github.com/felixgeelhaar/schedly/internal/app"
	"github.com/felixgeelhaar/schedly/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newApp(container *internalApp.Container) *cli.App {
	a := cli.NewApp(
		container.RecommendHandler,
		container.GetSnapshotHandler,
		container.InvalidateRecommendationsHandler,
		container.RecordEntryHandler,
		container.UpdateEntryHandler,
		container.RemoveEntryHandler,
		container.ListEntriesHandler,
		container.AddMemberHandler,
		container.RemoveMemberHandler,
		container.ListGroupMembersHandler,
		container.ListGroupsForUserHandler,
	)
	a.SetFlusher(container.Flush)
	a.SetHealth(container.Health)
	return a
}

// SetupLocalModeTestApp creates a container on a temporary SQLite file with
// the in-memory recommendation cache, installs it as the global CLI app and
// undoes both when the test ends.
func SetupLocalModeTestApp(t *testing.T) (*cli.App, *internalApp.Container) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:           "test",
		LogLevel:         "error",
		SQLitePath:       filepath.Join(t.TempDir(), "test.db"),
		CacheBackend:     config.CacheBackendMemory,
		CacheTTL:         time.Hour,
		CacheMemorySize:  64,
		CacheOpTimeout:   time.Second,
		WorkStart:        "09:00",
		WorkEnd:          "18:00",
		OutboxBatchSize:  100,
		OutboxMaxRetries: 5,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	a := newApp(container)
	cli.SetApp(a)
	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		container.Close()
	})
	return a, container
}

// Run executes a command's RunE with a background context and returns what
// it printed.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	err := cmd.RunE(cmd, args)
	return out.String(), err
}
