package format

import (
	"encoding/csv"
	"io"
	"strconv"

	"ophub/internal/report"
)

var reportCSVHeader = []string{
	"project", "total_tasks", "closed_tasks", "avg_progress",
	"hours_estimated", "hours_spent", "hours_pending",
}

// WriteReportCSV writes the management report rows as CSV, keeping the
// depth indent in the project column so the hierarchy stays readable in a
// spreadsheet.
func WriteReportCSV(w io.Writer, rows []report.Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(reportCSVHeader); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			RowLabel(row),
			strconv.Itoa(row.TotalTasks),
			strconv.Itoa(row.ClosedTasks),
			formatFloat(row.AvgProgress),
			formatFloat(row.HoursEstimated),
			formatFloat(row.HoursSpent),
			formatFloat(row.HoursPending),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
