package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/journal"
	"ophub/internal/op"
	"ophub/internal/session"
)

func newLogCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	var (
		spentOn  string
		comment  string
		progress int
	)

	cmd := &cobra.Command{
		Use:   "log <task-id> <hours>",
		Short: "Log time against a task, optionally updating its progress",
		Args:  requireExactlyArgs(2, "task id and hours are required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}
			hours, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.New("hours must be a number")
			}

			req := session.LogTimeRequest{
				Hours:   hours,
				SpentOn: spentOn,
				Comment: comment,
			}
			if cmd.Flags().Changed("progress") {
				req.Progress = &progress
			}

			return withClient(cfg, func(client *op.Client) error {
				snap, err := fetchSnapshot(cmd.Context(), client, cfg, op.TaskFilter{Assignee: "me"})
				if err != nil {
					return err
				}

				machine := session.NewMachine(client)
				state := session.State{}.Select(taskID)
				_, result, err := machine.LogTime(cmd.Context(), state, snap.Tasks, req)
				if err != nil {
					return err
				}
				if result.Warning != "" {
					fmt.Fprintln(os.Stderr, "warning: "+result.Warning)
				}

				recordJournalEntry(cfg, snap, result.TaskID, hours, spentOn, comment)

				if out.structured() {
					return writeStructured(out, result)
				}
				return writePlain("logged %.2fh on #%d\n", hours, result.TaskID)
			})
		},
	}

	cmd.Flags().StringVar(&spentOn, "on", "", "date the time was spent (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "time entry comment")
	cmd.Flags().IntVar(&progress, "progress", 0, "set task progress after logging (0-100)")

	return cmd
}

// recordJournalEntry mirrors a logged time entry into the local journal.
// The server entry already exists at this point, so journal failures are
// logged and swallowed.
func recordJournalEntry(cfg *config.Config, snap snapshot, taskID int, hours float64, spentOn, comment string) {
	if spentOn == "" {
		spentOn = time.Now().UTC().Format("2006-01-02")
	}
	subject := ""
	for _, task := range snap.Tasks {
		if task.ID == taskID {
			subject = task.Subject
			break
		}
	}

	jrnl, err := journal.Open(cfg.DBPath)
	if err != nil {
		slog.Warn("journal unavailable", "error", err)
		return
	}
	defer jrnl.Close()

	entry := journal.Entry{
		TaskID:  taskID,
		Subject: subject,
		Hours:   hours,
		SpentOn: spentOn,
		Comment: comment,
	}
	if err := jrnl.Record(entry); err != nil {
		slog.Warn("journal record failed", "task", taskID, "error", err)
	}
}
