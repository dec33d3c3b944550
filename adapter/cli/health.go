package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/felixgeelhaar/schedly/pkg/observability"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check database and cache health",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		if app.Health == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		}

		report := app.Health.Check(cmd.Context())
		if JSONOutput() {
			if err := PrintJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s\n", report.Status)
			for _, name := range slices.Sorted(maps.Keys(report.Checks)) {
				check := report.Checks[name]
				fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %s %s\n", name, check.Status, check.Message)
			}
		}
		if report.Status == observability.HealthStatusUnhealthy {
			return fmt.Errorf("unhealthy")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
