package cache

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/availability/application/commands"
	"github.com/spf13/cobra"
)

// Cmd is the cache command group
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached recommendations",
}

var (
	invalidateGroupID string
	invalidateDates   []string
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop cached recommendations for a group",
	Long: `Drop cached recommendations for a group on one or more dates, so the
next recommend call recomputes them. Snapshots are left untouched.

Examples:
  schedly cache invalidate --group <group-id>
  schedly cache invalidate --group <group-id> --date 2026-04-20 --date 2026-04-21`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.InvalidateRecommendationsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", invalidateGroupID)
		if err != nil {
			return err
		}

		raw := invalidateDates
		if len(raw) == 0 {
			raw = []string{""}
		}
		dates := make([]time.Time, 0, len(raw))
		for _, value := range raw {
			day, err := cli.ParseDateFlag(value)
			if err != nil {
				return err
			}
			dates = append(dates, day)
		}

		if err := app.InvalidateRecommendationsHandler.Handle(cmd.Context(), commands.InvalidateRecommendationsCommand{
			GroupID: gid,
			Dates:   dates,
		}); err != nil {
			return fmt.Errorf("failed to invalidate recommendations: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %d date(s) for group %s\n", len(dates), gid)
		return nil
	},
}

func init() {
	invalidateCmd.Flags().StringVarP(&invalidateGroupID, "group", "g", "", "group ID (required)")
	invalidateCmd.Flags().StringSliceVarP(&invalidateDates, "date", "d", nil, "date YYYY-MM-DD, repeatable (default: today)")
	_ = invalidateCmd.MarkFlagRequired("group")

	Cmd.AddCommand(invalidateCmd)
}
