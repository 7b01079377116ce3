package main

import (
	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/op"
	"ophub/internal/session"
)

func newCloseCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "close <task-id>",
		Short: "Close a task using the instance's closing status",
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

				machine := session.NewMachine(client)
				state := session.State{}.Select(taskID)
				if _, err := machine.Close(cmd.Context(), state, snap.Tasks); err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, map[string]int{"task_id": taskID})
				}
				return writePlain("closed #%d\n", taskID)
			})
		},
	}
}
