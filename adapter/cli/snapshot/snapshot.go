package snapshot

import (
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	"github.com/spf13/cobra"
)

// Cmd is the snapshot command group
var Cmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect persisted recommendation snapshots",
}

var (
	showGroupID string
	showDate    string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last recommendation computed for a group and date",
	Long: `Show the snapshot written by the last recommendation for a group and date.
Nothing is recomputed.

Examples:
  schedly snapshot show --group <group-id>
  schedly snapshot show --group <group-id> --date 2026-04-20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetSnapshotHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", showGroupID)
		if err != nil {
			return err
		}
		day, err := cli.ParseDateFlag(showDate)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		snap, err := app.GetSnapshotHandler.Handle(cmd.Context(), queries.GetSnapshotQuery{GroupID: gid, Date: day})
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(out, snap)
		}
		if len(snap.Windows) == 0 {
			fmt.Fprintf(out, "No snapshot for group %s on %s. Run `schedly recommend` first.\n", snap.GroupID, snap.Date)
			return nil
		}
		fmt.Fprintf(out, "Snapshot for group %s on %s\n\n", snap.GroupID, snap.Date)
		cli.PrintWindows(out, snap.Windows)
		return nil
	},
}

func init() {
	showCmd.Flags().StringVarP(&showGroupID, "group", "g", "", "group ID (required)")
	showCmd.Flags().StringVarP(&showDate, "date", "d", "", "date YYYY-MM-DD (default: today)")
	_ = showCmd.MarkFlagRequired("group")

	Cmd.AddCommand(showCmd)
}
