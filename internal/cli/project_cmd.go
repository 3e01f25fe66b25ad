package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"graphauth/internal/domain"
)

func newProjectCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project with its admin group, op group and resource target",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.CreateProject(cmdContext(), &domain.Project{Name: args[0], Description: description})
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	create.Flags().StringVar(&description, "description", "", "project description")

	describe := &cobra.Command{
		Use:   "describe <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.GetProject(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("project %q not found", args[0])
			}
			return printJSON(p)
		},
	}

	var limit int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			projects, err := mgr.ListAllProjects(cmdContext(), limit)
			if err != nil {
				return err
			}
			return printJSON(projects)
		},
	}
	addLimitFlag(list.Flags(), &limit)

	var newDescription string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project description",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.UpdateProjectDescription(cmdContext(), args[0], newDescription)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	update.Flags().StringVar(&newDescription, "description", "", "new description")
	_ = update.MarkFlagRequired("description")

	addGraph := &cobra.Command{
		Use:   "add-graph <id> <graph>",
		Short: "Bind a graph to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.UpdateProjectAddGraph(cmdContext(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	removeGraph := &cobra.Command{
		Use:   "remove-graph <id> <graph>",
		Short: "Unbind a graph from a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.UpdateProjectRemoveGraph(cmdContext(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its auxiliary groups and target",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			p, err := mgr.DeleteProject(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	cmd.AddCommand(create, describe, list, update, addGraph, removeGraph, del)
	return cmd
}
