package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"graphauth/internal/domain"
)

func newAccessCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "access",
		Short: "Manage group to target grants",
	}

	var description string
	create := &cobra.Command{
		Use:   "create <group-id> <target-id> <permission>",
		Short: "Grant a group a permission on a target",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			a, err := mgr.CreateAccess(cmdContext(), &domain.Access{
				GroupID:     args[0],
				TargetID:    args[1],
				Permission:  domain.Permission(strings.ToUpper(args[2])),
				Description: description,
			})
			if err != nil {
				return err
			}
			return printJSON(a)
		},
	}
	create.Flags().StringVar(&description, "description", "", "grant description")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a grant by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			a, err := mgr.GetAccess(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if a == nil {
				return fmt.Errorf("access %q not found", args[0])
			}
			return printJSON(a)
		},
	}

	var (
		limit    int64
		groupID  string
		targetID string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List grants, optionally filtered by group or target",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			ctx := cmdContext()
			var accesses []domain.Access
			switch {
			case groupID != "":
				accesses, err = mgr.ListAccessByGroup(ctx, groupID, limit)
			case targetID != "":
				accesses, err = mgr.ListAccessByTarget(ctx, targetID, limit)
			default:
				accesses, err = mgr.ListAllAccess(ctx, limit)
			}
			if err != nil {
				return err
			}
			return printJSON(accesses)
		},
	}
	addLimitFlag(list.Flags(), &limit)
	list.Flags().StringVar(&groupID, "group", "", "only grants held by this group id")
	list.Flags().StringVar(&targetID, "target", "", "only grants on this target id")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Revoke a grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			a, err := mgr.DeleteAccess(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(a)
		},
	}

	cmd.AddCommand(create, get, list, del)
	return cmd
}
