package group

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/schedly/adapter/cli"
	"github.com/felixgeelhaar/schedly/internal/groups/application/commands"
	"github.com/felixgeelhaar/schedly/internal/groups/application/queries"
	"github.com/felixgeelhaar/schedly/internal/groups/domain"
	"github.com/spf13/cobra"
)

var (
	memberGroupID string
	memberUserID  string
)

var addMemberCmd = &cobra.Command{
	Use:   "add-member",
	Short: "Add a user to a group",
	Long: `Add a user to a group.

Examples:
  schedly group add-member --group <group-id> --user <user-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddMemberHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", memberGroupID)
		if err != nil {
			return err
		}
		uid, err := cli.ParseIDFlag("user", memberUserID)
		if err != nil {
			return err
		}

		err = app.AddMemberHandler.Handle(cmd.Context(), commands.AddMemberCommand{GroupID: gid, UserID: uid})
		if errors.Is(err, domain.ErrMemberExists) {
			fmt.Fprintf(cmd.OutOrStdout(), "User %s is already a member of group %s\n", uid, gid)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to add member: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Added user %s to group %s\n", uid, gid)
		return nil
	},
}

var removeMemberCmd = &cobra.Command{
	Use:   "remove-member",
	Short: "Remove a user from a group",
	Long: `Remove a user from a group.

Examples:
  schedly group remove-member --group <group-id> --user <user-id>`,
	Aliases: []string{"rm-member"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RemoveMemberHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", memberGroupID)
		if err != nil {
			return err
		}
		uid, err := cli.ParseIDFlag("user", memberUserID)
		if err != nil {
			return err
		}

		if err := app.RemoveMemberHandler.Handle(cmd.Context(), commands.RemoveMemberCommand{GroupID: gid, UserID: uid}); err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed user %s from group %s\n", uid, gid)
		return nil
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the members of a group",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListGroupMembersHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		gid, err := cli.ParseIDFlag("group", memberGroupID)
		if err != nil {
			return err
		}

		members, err := app.ListGroupMembersHandler.Handle(cmd.Context(), queries.ListGroupMembersQuery{GroupID: gid})
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, members)
		}
		if len(members) == 0 {
			fmt.Fprintf(out, "Group %s has no members\n", gid)
			return nil
		}
		fmt.Fprintf(out, "Group %s (%d members)\n", gid, len(members))
		for _, id := range members {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	},
}

var forUserCmd = &cobra.Command{
	Use:   "for-user",
	Short: "List the groups a user belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListGroupsForUserHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.NoAppMessage)
			return nil
		}

		uid, err := cli.ParseIDFlag("user", memberUserID)
		if err != nil {
			return err
		}

		groups, err := app.ListGroupsForUserHandler.Handle(cmd.Context(), queries.ListGroupsForUserQuery{UserID: uid})
		if err != nil {
			return fmt.Errorf("failed to list groups: %w", err)
		}

		out := cmd.OutOrStdout()
		if cli.JSONOutput() {
			return cli.PrintJSON(out, groups)
		}
		if len(groups) == 0 {
			fmt.Fprintf(out, "User %s is not in any group\n", uid)
			return nil
		}
		for _, id := range groups {
			fmt.Fprintln(out, id)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{addMemberCmd, removeMemberCmd, membersCmd} {
		c.Flags().StringVarP(&memberGroupID, "group", "g", "", "group ID (required)")
		_ = c.MarkFlagRequired("group")
	}
	for _, c := range []*cobra.Command{addMemberCmd, removeMemberCmd, forUserCmd} {
		c.Flags().StringVarP(&memberUserID, "user", "u", "", "user ID (required)")
		_ = c.MarkFlagRequired("user")
	}
}
