package group

import (
	"github.com/spf13/cobra"
)

// Cmd is the group command group
var Cmd = &cobra.Command{
	Use:   "group",
	Short: "Manage group membership",
	Long: `Add and remove group members. Recommendations for a group cover
every member on the day they are requested.`,
}

func init() {
	Cmd.AddCommand(addMemberCmd)
	Cmd.AddCommand(removeMemberCmd)
	Cmd.AddCommand(membersCmd)
	Cmd.AddCommand(forUserCmd)
}
