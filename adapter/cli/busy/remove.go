package busy

import (
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/schedules/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var removeUserID string

var removeCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Remove a schedule entry",
	Long: `Remove a schedule entry from a user's calendar.

Examples:
  schedly busy remove <entry-id> --user <user-id>`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RemoveEntryHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		entryID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}
		uid, err := cli.ParseIDFlag("user", removeUserID)
		if err != nil {
			return err
		}

		if err := app.RemoveEntryHandler.Handle(cmd.Context(), commands.RemoveEntryCommand{
			EntryID: entryID,
			UserID:  uid,
		}); err != nil {
			return fmt.Errorf("failed to remove entry: %w", err)
		}
		relay(cmd, app)

		fmt.Fprintf(cmd.OutOrStdout(), "Removed entry %s\n", entryID)
		return nil
	},
}

func init() {
	removeCmd.Flags().StringVarP(&removeUserID, "user", "u", "", "owner user ID (required)")
	_ = removeCmd.MarkFlagRequired("user")
}
