package main

import (
	"context"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/format"
	"ophub/internal/models"
	"ophub/internal/op"
	"ophub/internal/report"
	"ophub/internal/session"
	"ophub/internal/tui"
)

type boardGroup struct {
	ProjectID    int                   `json:"project_id"`
	Name         string                `json:"name"`
	Depth        int                   `json:"depth"`
	Unclassified bool                  `json:"unclassified,omitempty"`
	Tasks        []models.EnrichedTask `json:"tasks"`
}

type board struct {
	Groups  []boardGroup          `json:"groups"`
	Orphans []models.EnrichedTask `json:"orphans,omitempty"`
}

// boardPayload flattens the board for machine-readable output; the group
// nodes carry whole subtrees that would otherwise serialize repeatedly.
func boardPayload(b report.Board) board {
	out := board{Orphans: b.Orphans}
	for _, group := range b.Groups {
		out.Groups = append(out.Groups, boardGroup{
			ProjectID:    group.Node.Project.ID,
			Name:         group.Node.Project.Name,
			Depth:        group.Depth,
			Unclassified: group.Node.Unclassified,
			Tasks:        group.Tasks,
		})
	}
	return out
}

func newKanbanCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	var (
		assignee    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "kanban",
		Short: "Kanban view: active tasks grouped by project branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				if interactive {
					loader := func(ctx context.Context) (tui.Snapshot, error) {
						snap, err := fetchSnapshot(ctx, client, cfg, op.TaskFilter{Assignee: assignee})
						if err != nil {
							return tui.Snapshot{}, err
						}
						return tui.Snapshot{
							Board: report.BuildBoard(snap.Tree, snap.Tasks),
							Tasks: snap.Tasks,
						}, nil
					}
					return tui.Run(loader, session.NewMachine(client))
				}

				snap, err := fetchSnapshot(cmd.Context(), client, cfg, op.TaskFilter{Assignee: assignee})
				if err != nil {
					return err
				}
				board := report.BuildBoard(snap.Tree, snap.Tasks)
				if out.structured() {
					return writeStructured(out, boardPayload(board))
				}
				return writePlain("%s", format.Board(board))
			})
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "me", "assignee filter (me, a user id, or empty for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "interactive board")

	return cmd
}
