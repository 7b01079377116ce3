package main

import (
	"os"

	"github.com/spf13/cobra"

	"ophub/internal/config"
	"ophub/internal/format"
	"ophub/internal/op"
	"ophub/internal/report"
)

type reportPayload struct {
	Rows  []report.Row            `json:"rows"`
	Hours []report.HoursBreakdown `json:"hours"`
}

func newReportCmd(cfg *config.Config, out *outputFlags) *cobra.Command {
	var (
		assignee      string
		includeClosed bool
		csvOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Management report: per-project roll-up of the visible tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *op.Client) error {
				snap, err := fetchSnapshot(cmd.Context(), client, cfg, op.TaskFilter{
					Assignee:      assignee,
					IncludeClosed: includeClosed,
				})
				if err != nil {
					return err
				}

				rows := report.BuildRows(snap.Tree, snap.Tasks)
				if csvOutput {
					return format.WriteReportCSV(os.Stdout, rows)
				}
				if out.structured() {
					return writeStructured(out, reportPayload{
						Rows:  rows,
						Hours: report.BuildHoursBreakdown(snap.Tree, snap.Tasks),
					})
				}
				return writePlain("%s", format.ReportTable(rows))
			})
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "me", "assignee filter (me, a user id, or empty for all)")
	cmd.Flags().BoolVar(&includeClosed, "include-closed", false, "include tasks in retired statuses")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "output CSV")

	return cmd
}
