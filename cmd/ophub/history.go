package main

import (
	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/journal"
)

func newHistoryCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "history [task-id]",
		Short: "Show locally journaled time entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID := 0
			if len(args) == 1 {
				id, err := parseTaskID(args[0])
				if err != nil {
					return err
				}
				taskID = id
			}

			jrnl, err := journal.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer jrnl.Close()

			if summary {
				totals, err := jrnl.Summary()
				if err != nil {
					return err
				}
				if out.structured() {
					return writeStructured(out, totals)
				}
				for _, total := range totals {
					if err := writePlain("#%d %s: %.2fh\n", total.TaskID, total.Subject, total.Hours); err != nil {
						return err
					}
				}
				return nil
			}

			entries, err := jrnl.List(taskID)
			if err != nil {
				return err
			}
			if out.structured() {
				return writeStructured(out, entries)
			}
			for _, entry := range entries {
				if err := writePlain("%s #%d %.2fh %s %s\n", entry.SpentOn, entry.TaskID, entry.Hours, entry.Subject, entry.Comment); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "per-task totals instead of individual entries")

	return cmd
}
