package cache

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/adapter/cli/clitest"
	"github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	groupCommands "github.com/felixgeelhaar/schedly/internal/groups/application/commands"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateCmd_ForcesRecompute(t *testing.T) {
	app, _ := clitest.SetupLocalModeTestApp(t)
	ctx := context.Background()
	groupID := uuid.New()
	require.NoError(t, app.AddMemberHandler.Handle(ctx, groupCommands.AddMemberCommand{GroupID: groupID, UserID: uuid.New()}))

	query := queries.RecommendQuery{
		GroupID:  groupID,
		Date:     time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC),
		Duration: 30 * time.Minute,
	}
	_, err := app.RecommendHandler.Handle(ctx, query)
	require.NoError(t, err)
	cached, err := app.RecommendHandler.Handle(ctx, query)
	require.NoError(t, err)
	require.True(t, cached.FromCache)

	invalidateGroupID = groupID.String()
	invalidateDates = []string{"2026-04-20", "2026-04-21"}
	out, err := clitest.Run(t, invalidateCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalidated 2 date(s)")

	fresh, err := app.RecommendHandler.Handle(ctx, query)
	require.NoError(t, err)
	assert.False(t, fresh.FromCache)
}

func TestInvalidateCmd_DefaultsToToday(t *testing.T) {
	clitest.SetupLocalModeTestApp(t)
	invalidateGroupID = uuid.New().String()
	invalidateDates = nil

	out, err := clitest.Run(t, invalidateCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Invalidated 1 date(s)")
}

func TestInvalidateCmd_InvalidInput(t *testing.T) {
	clitest.SetupLocalModeTestApp(t)

	invalidateGroupID = ""
	invalidateDates = nil
	_, err := clitest.Run(t, invalidateCmd)
	assert.ErrorContains(t, err, "--group is required")

	invalidateGroupID = uuid.New().String()
	invalidateDates = []string{"2026-13-01"}
	_, err = clitest.Run(t, invalidateCmd)
	assert.ErrorContains(t, err, "invalid date format")
}

func TestInvalidateCmd_NoApp(t *testing.T) {
	cli.SetApp(nil)

	out, err := clitest.Run(t, invalidateCmd)
	assert.NoError(t, err)
	assert.Contains(t, out, "requires a database connection")
}
