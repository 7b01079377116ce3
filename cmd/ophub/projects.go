package main

import (
	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/format"
	"ophub/internal/hierarchy"
	"ophub/internal/op"
)

type projectRow struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Depth        int    `json:"depth"`
	Unclassified bool   `json:"unclassified,omitempty"`
}

func newProjectsCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Show the project hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				projects, err := client.ListProjects(cmd.Context())
				if err != nil {
					return err
				}
				tree := hierarchy.Build(projects)

				if out.structured() {
					var rows []projectRow
					tree.Walk(func(node *hierarchy.Node, depth int) {
						rows = append(rows, projectRow{
							ID:           node.Project.ID,
							Name:         node.Project.Name,
							Depth:        depth,
							Unclassified: node.Unclassified,
						})
					})
					return writeStructured(out, rows)
				}
				return writePlain("%s", format.ProjectTree(tree))
			})
		},
	}
}
