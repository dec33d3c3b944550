package busy

import (
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/schedules/application/commands"
	schedulesDomain "github.com/felixgeelhaar/schedly/internal/schedules/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	updateUserID string
	updateDate   string
	updateStart  string
	updateEnd    string
	updateKind   string
	updateTitle  string
)

var updateCmd = &cobra.Command{
	Use:   "update <entry-id>",
	Short: "Change a schedule entry",
	Long: `Change a schedule entry. Only the flags given are applied.

Moving an entry to another date invalidates recommendations for both dates.

Examples:
  schedly busy update <entry-id> --user <user-id> --end 11:00
  schedly busy update <entry-id> --user <user-id> --date 2026-04-21 --kind busy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.UpdateEntryHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		entryID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID: %w", err)
		}
		uid, err := cli.ParseIDFlag("user", updateUserID)
		if err != nil {
			return err
		}

		c := commands.UpdateEntryCommand{EntryID: entryID, UserID: uid}
		flags := cmd.Flags()
		if flags.Changed("date") {
			day, err := cli.ParseDateFlag(updateDate)
			if err != nil {
				return err
			}
			c.Date = &day
		}
		if flags.Changed("start") {
			start, err := cli.ParseTimeFlag("start", updateStart)
			if err != nil {
				return err
			}
			c.Start = &start
		}
		if flags.Changed("end") {
			end, err := cli.ParseTimeFlag("end", updateEnd)
			if err != nil {
				return err
			}
			c.End = &end
		}
		if flags.Changed("kind") {
			kind, err := schedulesDomain.ParseKind(updateKind)
			if err != nil {
				return err
			}
			c.Kind = &kind
		}
		if flags.Changed("title") {
			title := updateTitle
			c.Title = &title
		}

		if err := app.UpdateEntryHandler.Handle(cmd.Context(), c); err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		relay(cmd, app)

		fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", entryID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateUserID, "user", "u", "", "owner user ID (required)")
	updateCmd.Flags().StringVarP(&updateDate, "date", "d", "", "new date YYYY-MM-DD")
	updateCmd.Flags().StringVar(&updateStart, "start", "", "new start time HH:MM")
	updateCmd.Flags().StringVar(&updateEnd, "end", "", "new end time HH:MM")
	updateCmd.Flags().StringVarP(&updateKind, "kind", "k", "", "new kind: busy, available, preferred")
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	_ = updateCmd.MarkFlagRequired("user")
}
