package busy

import (
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/availability/domain"
	"github.com/felixgeelhaar/schedly/internal/schedules/application/commands"
	schedulesDomain "github.com/felixgeelhaar/schedly/internal/schedules/domain"
	"github.com/spf13/cobra"
)

var (
	addUserID string
	addDate   string
	addStart  string
	addEnd    string
	addKind   string
	addTitle  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a schedule entry",
	Long: `Record an interval on a user's calendar.

Kinds: busy (default), available, preferred

Examples:
  schedly busy add --user <user-id> --start 09:00 --end 10:30 --title "Standup"
  schedly busy add --user <user-id> --date 2026-04-20 --start 13:00 --end 14:00
  schedly busy add --user <user-id> --start 16:00 --end 17:00 --kind preferred`,
	Aliases: []string{"new"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordEntryHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		uid, err := cli.ParseIDFlag("user", addUserID)
		if err != nil {
			return err
		}
		day, err := cli.ParseDateFlag(addDate)
		if err != nil {
			return err
		}
		start, err := cli.ParseTimeFlag("start", addStart)
		if err != nil {
			return err
		}
		end, err := cli.ParseTimeFlag("end", addEnd)
		if err != nil {
			return err
		}
		kind, err := schedulesDomain.ParseKind(addKind)
		if err != nil {
			return err
		}

		result, err := app.RecordEntryHandler.Handle(cmd.Context(), commands.RecordEntryCommand{
			UserID: uid,
			Date:   day,
			Start:  start,
			End:    end,
			Kind:   kind,
			Title:  addTitle,
		})
		if err != nil {
			return fmt.Errorf("failed to record entry: %w", err)
		}
		relay(cmd, app)

		fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s %s-%s on %s\n", kind, start, end, day.Format(domain.DateLayout))
		fmt.Fprintf(cmd.OutOrStdout(), "  ID: %s\n", result.EntryID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addUserID, "user", "u", "", "user ID (required)")
	addCmd.Flags().StringVarP(&addDate, "date", "d", "", "date YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addStart, "start", "", "start time HH:MM (required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end time HH:MM (required)")
	addCmd.Flags().StringVarP(&addKind, "kind", "k", "busy", "entry kind: busy, available, preferred")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "entry title")
	_ = addCmd.MarkFlagRequired("user")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
}
