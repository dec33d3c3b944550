package busy

import (
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/spf13/cobra"
)

// Cmd is the busy command group
var Cmd = &cobra.Command{
	Use:   "busy",
	Short: "Manage schedule entries",
	Long: `Record, change and list the intervals on a user's calendar.

Only entries of kind "busy" block a member during recommendation. Every
change invalidates cached recommendations for the groups the user is in.`,
	Aliases: []string{"entry"},
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(listCmd)
}

// relay pushes the queued schedule event through to the subscribers. A
// failure is reported but not returned: the write has committed and the
// outbox keeps the event for the next relay.
func relay(cmd *cobra.Command, app *cli.App) {
	if err := app.Flush(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: schedule change saved, cache invalidation deferred: %v\n", err)
	}
}
