package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"graphauth/internal/domain"
)

func newTargetCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage resource targets",
	}

	var (
		graph     string
		url       string
		resources []string
	)
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			res, err := parseResources(resources)
			if err != nil {
				return err
			}
			t, err := mgr.CreateTarget(cmdContext(), &domain.Target{
				Name:      args[0],
				GraphName: graph,
				URL:       url,
				Resources: res,
			})
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}
	create.Flags().StringVar(&graph, "graph", "", "graph the target belongs to")
	create.Flags().StringVar(&url, "url", "", "endpoint serving the graph")
	create.Flags().StringArrayVar(&resources, "resource", nil, "resource as TYPE or TYPE:ID (repeatable)")
	_ = create.MarkFlagRequired("graph")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Get a target by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			t, err := mgr.GetTarget(cmdContext(), args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("target %q not found", args[0])
			}
			return printJSON(t)
		},
	}

	var limit int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List targets",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			targets, err := mgr.ListAllTargets(cmdContext(), limit)
			if err != nil {
				return err
			}
			return printJSON(targets)
		},
	}
	addLimitFlag(list.Flags(), &limit)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mgr, err := app.manager()
			if err != nil {
				return err
			}
			t, err := mgr.DeleteTarget(cmdContext(), args[0])
			if err != nil {
				return err
			}
			return printJSON(t)
		},
	}

	cmd.AddCommand(create, get, list, del)
	return cmd
}

// parseResources converts "TYPE" or "TYPE:ID" flags into resource values.
func parseResources(specs []string) ([]domain.Resource, error) {
	out := make([]domain.Resource, 0, len(specs))
	for _, s := range specs {
		typ, id, _ := strings.Cut(s, ":")
		if typ == "" {
			return nil, fmt.Errorf("invalid resource %q: expected TYPE or TYPE:ID", s)
		}
		out = append(out, domain.Resource{Type: domain.ResourceType(strings.ToUpper(typ)), ID: id})
	}
	return out, nil
}
