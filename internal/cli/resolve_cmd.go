package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd(app *appContext) *cobra.Command {
	var userName string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the effective role permission of a user",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			ctx := cmdContext()
			u, err := mgr.FindUserByName(ctx, userName)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("user %q not found", userName)
			}
			role, err := mgr.ResolvePermission(ctx, u)
			if err != nil {
				return err
			}
			return printJSON(role)
		},
	}
	cmd.Flags().StringVar(&userName, "user", "", "user name to resolve")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newLoginCmd(app *appContext) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <name>",
		Short: "Verify credentials and print the resolved role permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			role, err := mgr.Login(cmdContext(), args[0], password)
			if err != nil {
				return err
			}
			if role == nil {
				return fmt.Errorf("invalid credentials for %q", args[0])
			}
			return printJSON(role)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "plaintext password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
