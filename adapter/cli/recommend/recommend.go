package recommend

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/availability/application/queries"
	"github.com/spf13/cobra"
)

var (
	recGroupID  string
	recDate     string
	recDuration time.Duration
	recStart    string
	recEnd      string
	recLimit    int
)

// Cmd recommends meeting windows for a group.
var Cmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend meeting windows for a group",
	Long: `Rank every window of the requested length inside the working day by the
share of group members who are free for all of it.

Results are served from the cache until a member's schedule changes.

Examples:
  schedly recommend --group <group-id> --duration 1h
  schedly recommend --group <group-id> --date 2026-04-20 --duration 45m
  schedly recommend --group <group-id> --duration 30m --start 08:00 --end 12:00 --limit 3`,
	Aliases: []string{"rec"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecommendHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", recGroupID)
		if err != nil {
			return err
		}
		day, err := cli.ParseDateFlag(recDate)
		if err != nil {
			return err
		}
		start, err := cli.ParseOptionalTimeFlag("start", recStart)
		if err != nil {
			return err
		}
		end, err := cli.ParseOptionalTimeFlag("end", recEnd)
		if err != nil {
			return err
		}

		result, err := app.RecommendHandler.Handle(cmd.Context(), queries.RecommendQuery{
			GroupID:   gid,
			Date:      day,
			Duration:  recDuration,
			WorkStart: start,
			WorkEnd:   end,
		})
		if err != nil {
			return fmt.Errorf("failed to recommend windows: %w", err)
		}

		if recLimit > 0 && len(result.Windows) > recLimit {
			result.Windows = result.Windows[:recLimit]
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, result)
		}

		source := "computed"
		if result.FromCache {
			source = "cached"
		}
		fmt.Fprintf(out, "Group %s on %s\n", result.GroupID, result.Date)
		fmt.Fprintf(out, "%d min meeting between %s and %s, %d members (%s)\n\n",
			result.DurationMin, result.SearchStart, result.SearchEnd, result.TotalMembers, source)
		cli.PrintWindows(out, result.Windows)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&recGroupID, "group", "g", "", "group ID (required)")
	Cmd.Flags().StringVarP(&recDate, "date", "d", "", "target date YYYY-MM-DD (default: today)")
	Cmd.Flags().DurationVar(&recDuration, "duration", time.Hour, "meeting length, a multiple of 15m")
	Cmd.Flags().StringVar(&recStart, "start", "", "search start HH:MM (default: WORK_START)")
	Cmd.Flags().StringVar(&recEnd, "end", "", "search end HH:MM (default: WORK_END)")
	Cmd.Flags().IntVarP(&recLimit, "limit", "n", 0, "show at most this many windows")
	_ = Cmd.MarkFlagRequired("group")
}
