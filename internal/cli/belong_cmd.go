package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphauth/internal/domain"
)

func newBelongCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "belong",
		Short: "Manage user to group memberships",
	}

	var description string
	create := &cobra.Command{
		Use:   "create <user-id> <group-id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			b, err := mgr.CreateBelong(cmdContext(), &domain.Belong{
				UserID:      args[0],
				GroupID:     args[1],
				Description: description,
			})
			if err != nil {
				return err
			}
			return printJSON(b)
		},
	}
	create.Flags().StringVar(&description, "description", "", "membership description")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a membership by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			b, err := mgr.GetBelong(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if b == nil {
				return fmt.Errorf("belong %q not found", args[0])
			}
			return printJSON(b)
		},
	}

	var (
		limit   int64
		userID  string
		groupID string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List memberships, optionally filtered by user or group",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			ctx := cmdContext()
			var (
				belongs []domain.Belong
			)
			switch {
			case userID != "":
				belongs, err = mgr.ListBelongByUser(ctx, userID, limit)
			case groupID != "":
				belongs, err = mgr.ListBelongByGroup(ctx, groupID, limit)
			default:
				belongs, err = mgr.ListAllBelong(ctx, limit)
			}
			if err != nil {
				return err
			}
			return printJSON(belongs)
		},
	}
	addLimitFlag(list.Flags(), &limit)
	list.Flags().StringVar(&userID, "user", "", "only memberships of this user id")
	list.Flags().StringVar(&groupID, "group", "", "only memberships of this group id")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a membership",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			b, err := mgr.DeleteBelong(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(b)
		},
	}

	cmd.AddCommand(create, get, list, del)
	return cmd
}
