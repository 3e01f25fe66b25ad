package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"graphauth/internal/domain"
)

func newUserCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var password string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u, err := mgr.CreateUser(cmdContext(), &domain.User{Name: args[0], PasswordHash: string(hash)})
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}
	create.Flags().StringVar(&password, "password", "", "plaintext password to hash and store")
	_ = create.MarkFlagRequired("password")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			u, err := mgr.GetUser(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("user %q not found", args[0])
			}
			return printJSON(u)
		},
	}

	find := &cobra.Command{
		Use:   "find <name>",
		Short: "Find a user by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			u, err := mgr.FindUserByName(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("user %q not found", args[0])
			}
			return printJSON(u)
		},
	}

	var limit int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			users, err := mgr.ListAllUsers(cmdContext(), limit)
			if err != nil {
				return err
			}
			return printJSON(users)
		},
	}
	addLimitFlag(list.Flags(), &limit)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			u, err := mgr.DeleteUser(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(u)
		},
	}

	cmd.AddCommand(create, get, find, list, del)
	return cmd
}
