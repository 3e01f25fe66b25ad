package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphauth/internal/domain"
)

func newGroupCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			g, err := mgr.CreateGroup(cmdContext(), &domain.Group{Name: args[0]})
			if err != nil {
				return err
			}
			return printJSON(g)
		},
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a group by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			g, err := mgr.GetGroup(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if g == nil {
				return fmt.Errorf("group %q not found", args[0])
			}
			return printJSON(g)
		},
	}

	var limit int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			groups, err := mgr.ListAllGroups(cmdContext(), limit)
			if err != nil {
				return err
			}
			return printJSON(groups)
		},
	}
	addLimitFlag(list.Flags(), &limit)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			g, err := mgr.DeleteGroup(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(g)
		},
	}

	cmd.AddCommand(create, get, list, del)
	return cmd
}
