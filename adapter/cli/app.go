package cli

import (
	"context"

	availabilityCommands "github.com/felixgeelhaar/schedly/internal/availability/application/commands"
	availabilityQueries "github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	groupCommands "github.com/felixgeelhaar/schedly/internal/groups/application/commands"
	groupQueries "github.com/felixgeelhaar/schedly/internal/groups/application/queries"
	entryCommands "github.com/felixgeelhaar/schedly/internal/schedules/application/commands"
	entryQueries "github.com/felixgeelhaar/schedly/internal/schedules/application/queries"
	"github.com/felixgeelhaar/schedly/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Recommendation handlers
	RecommendHandler                 *availabilityQueries.RecommendHandler
	GetSnapshotHandler               *availabilityQueries.GetSnapshotHandler
	InvalidateRecommendationsHandler *availabilityCommands.InvalidateRecommendationsHandler

	// Schedule entry handlers
	RecordEntryHandler *entryCommands.RecordEntryHandler
	UpdateEntryHandler *entryCommands.UpdateEntryHandler
	RemoveEntryHandler *entryCommands.RemoveEntryHandler
	ListEntriesHandler *entryQueries.ListEntriesHandler

	// Group handlers
	AddMemberHandler         *groupCommands.AddMemberHandler
	RemoveMemberHandler      *groupCommands.RemoveMemberHandler
	ListGroupMembersHandler  *groupQueries.ListGroupMembersHandler
	ListGroupsForUserHandler *groupQueries.ListGroupsForUserHandler

	Health *observability.HealthRegistry

	flush func(ctx context.Context) error
}

// NewApp creates a new CLI application.
func NewApp(
	recommendHandler *availabilityQueries.RecommendHandler,
	getSnapshotHandler *availabilityQueries.GetSnapshotHandler,
	invalidateHandler *availabilityCommands.InvalidateRecommendationsHandler,
	recordEntryHandler *entryCommands.RecordEntryHandler,
	updateEntryHandler *entryCommands.UpdateEntryHandler,
	removeEntryHandler *entryCommands.RemoveEntryHandler,
	listEntriesHandler *entryQueries.ListEntriesHandler,
	addMemberHandler *groupCommands.AddMemberHandler,
	removeMemberHandler *groupCommands.RemoveMemberHandler,
	listGroupMembersHandler *groupQueries.ListGroupMembersHandler,
	listGroupsForUserHandler *groupQueries.ListGroupsForUserHandler,
) *App {
	return &App{
		RecommendHandler:                 recommendHandler,
		GetSnapshotHandler:               getSnapshotHandler,
		InvalidateRecommendationsHandler: invalidateHandler,
		RecordEntryHandler:               recordEntryHandler,
		UpdateEntryHandler:               updateEntryHandler,
		RemoveEntryHandler:               removeEntryHandler,
		ListEntriesHandler:               listEntriesHandler,
		AddMemberHandler:                 addMemberHandler,
		RemoveMemberHandler:              removeMemberHandler,
		ListGroupMembersHandler:          listGroupMembersHandler,
		ListGroupsForUserHandler:         listGroupsForUserHandler,
	}
}

// SetFlusher sets the function that relays pending schedule events after a write.
func (a *App) SetFlusher(flush func(ctx context.Context) error) {
	a.flush = flush
}

// SetHealth sets the registry reported by the health command.
func (a *App) SetHealth(health *observability.HealthRegistry) {
	a.Health = health
}

// Flush relays pending schedule events so cached recommendations are
// invalidated before the command returns. It is a no-op without a flusher.
func (a *App) Flush(ctx context.Context) error {
	if a.flush == nil {
		return nil
	}
	return a.flush(ctx)
}

// Global app instance (set by main)
var app *App

// SetApp sets the global app instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global app instance.
func GetApp() *App {
	return app
}
