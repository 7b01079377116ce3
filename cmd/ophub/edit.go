package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/models"
	"ophub/internal/op"
	"ophub/internal/session"
)

func newEditCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	var (
		subject     string
		description string
		dueDate     string
		estimate    float64
		progress    int
		status      string
	)

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Update fields on a task",
		Args:  requireExactlyArgs(1, "task id is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			return withClient(cfg, func(client *op.Client) error {
				snap, err := fetchSnapshot(cmd.Context(), client, cfg, op.TaskFilter{Assignee: "me"})
				if err != nil {
					return err
				}

				state := session.State{}.Select(taskID)
				machine := session.NewMachine(client)

				task, ok := taskInSnapshot(snap, taskID)
				if !ok {
					return session.ErrSelectionNotVisible
				}

				patch := models.TaskPatch{LockVersion: task.LockVersion}
				flags := cmd.Flags()
				if flags.Changed("subject") {
					patch.Subject = &subject
				}
				if flags.Changed("description") {
					patch.Description = &description
				}
				if flags.Changed("due") {
					patch.DueDate = &dueDate
				}
				if flags.Changed("estimate") {
					patch.EstimatedHours = &estimate
				}
				if flags.Changed("progress") {
					patch.Progress = &progress
				}
				if flags.Changed("status") {
					statusID, err := resolveStatusID(cmd.Context(), client, status)
					if err != nil {
						return err
					}
					patch.StatusID = &statusID
				}

				if _, err := machine.Edit(cmd.Context(), state, snap.Tasks, patch); err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, map[string]int{"task_id": taskID})
				}
				return writePlain("updated #%d\n", taskID)
			})
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "new subject")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&dueDate, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "new estimated hours")
	cmd.Flags().IntVar(&progress, "progress", 0, "new progress (0-100)")
	cmd.Flags().StringVar(&status, "status", "", "new status, by name")

	return cmd
}

func taskInSnapshot(snap snapshot, taskID int) (models.EnrichedTask, bool) {
	for _, task := range snap.Tasks {
		if task.ID == taskID {
			return task, true
		}
	}
	return models.EnrichedTask{}, false
}

// resolveStatusID matches a status by name, case-insensitively, against
// the instance vocabulary.
func resolveStatusID(ctx context.Context, client *op.Client, name string) (int, error) {
	statuses, err := client.Statuses(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch status vocabulary: %w", err)
	}

	names := make([]string, 0, len(statuses))
	for _, status := range statuses {
		if strings.EqualFold(status.Name, name) {
			return status.ID, nil
		}
		names = append(names, status.Name)
	}
	return 0, fmt.Errorf("unknown status %q; available: %s", name, strings.Join(names, ", "))
}
