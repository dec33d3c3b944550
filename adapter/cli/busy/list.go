package busy

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/schedules/application/queries"
	"github.com/spf13/cobra"
)

var (
	listUserID string
	listFrom   string
	listTo     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's schedule entries",
	Long: `List a user's schedule entries over an inclusive date range.

Examples:
  schedly busy list --user <user-id>
  schedly busy list --user <user-id> --from 2026-04-20 --to 2026-04-24`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListEntriesHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		uid, err := cli.ParseIDFlag("user", listUserID)
		if err != nil {
			return err
		}
		from, err := cli.ParseDateFlag(listFrom)
		if err != nil {
			return err
		}
		to := from
		if listTo != "" {
			if to, err = cli.ParseDateFlag(listTo); err != nil {
				return err
			}
		}

		entries, err := app.ListEntriesHandler.Handle(cmd.Context(), queries.ListEntriesQuery{
			UserID: uid,
			From:   from,
			To:     to,
		})
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No entries.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %-11s  %-9s  %-8s  %s\n", "DATE", "TIME", "KIND", "ID", "TITLE")
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, e := range entries {
			fmt.Fprintf(out, "%-10s  %-11s  %-9s  %-8s  %s\n",
				e.Date, e.Start+"-"+e.End, e.Kind, e.ID.String()[:8], e.Title)
		}
		if cli.Verbose() {
			fmt.Fprintln(out)
			for _, e := range entries {
				fmt.Fprintf(out, "  %s\n", e.ID)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listUserID, "user", "u", "", "user ID (required)")
	listCmd.Flags().StringVar(&listFrom, "from", "", "first date YYYY-MM-DD (default: today)")
	listCmd.Flags().StringVar(&listTo, "to", "", "last date YYYY-MM-DD (default: --from)")
	_ = listCmd.MarkFlagRequired("user")
}
