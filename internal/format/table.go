package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ophub/internal/duedate"
	"ophub/internal/hierarchy"
	"ophub/internal/models"
	"ophub/internal/report"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#4A90E2")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	unclassifiedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))

	overdueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	dueTodayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7DC6F")).
			Bold(true)

	onTrackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))
)

// RowLabel renders a report row's name with its depth indent and branch
// marker, matching the tree view.
func RowLabel(row report.Row) string {
	return nodeLabel(row.Name, row.Depth, row.Unclassified)
}

func nodeLabel(name string, depth int, unclassified bool) string {
	indent := strings.Repeat("  ", depth)
	switch {
	case unclassified:
		return indent + "? " + name
	case depth == 0:
		return indent + name
	default:
		return indent + "↳ " + name
	}
}

// DueLabel maps a due-date classification to its display label.
func DueLabel(status duedate.Status) string {
	switch status {
	case duedate.StatusPast:
		return overdueStyle.Render("overdue")
	case duedate.StatusToday:
		return dueTodayStyle.Render("due today")
	case duedate.StatusFuture:
		return onTrackStyle.Render("on track")
	default:
		return ""
	}
}

// ReportTable renders the management report as an aligned text table.
func ReportTable(rows []report.Row) string {
	var b strings.Builder

	nameWidth := len("Project")
	for _, row := range rows {
		if w := len([]rune(RowLabel(row))); w > nameWidth {
			nameWidth = w
		}
	}

	writeReportLine := func(name string, cells ...string) {
		fmt.Fprintf(&b, "%-*s", nameWidth, name)
		for _, cell := range cells {
			fmt.Fprintf(&b, "  %8s", cell)
		}
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render("Management Report"))
	b.WriteString("\n")
	writeReportLine("Project", "Tasks", "Closed", "Avg %", "Est h", "Spent h", "Pend h")
	for _, row := range rows {
		label := RowLabel(row)
		if row.Unclassified {
			label = unclassifiedStyle.Render(label)
			// Styled text carries escape codes; repad manually.
			label += strings.Repeat(" ", nameWidth-len([]rune(RowLabel(row))))
			fmt.Fprintf(&b, "%s", label)
			for _, cell := range reportCells(row) {
				fmt.Fprintf(&b, "  %8s", cell)
			}
			b.WriteString("\n")
			continue
		}
		writeReportLine(label, reportCells(row)...)
	}
	return b.String()
}

func reportCells(row report.Row) []string {
	return []string{
		strconv.Itoa(row.TotalTasks),
		strconv.Itoa(row.ClosedTasks),
		formatFloat(row.AvgProgress),
		formatFloat(row.HoursEstimated),
		formatFloat(row.HoursSpent),
		formatFloat(row.HoursPending),
	}
}

// TaskTable renders a kanban task subset.
func TaskTable(tasks []models.EnrichedTask) string {
	if len(tasks) == 0 {
		return "  (no active tasks at this level)\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %-6s %-10s %-40s %-14s %5s %7s %7s %7s  %-10s %s\n",
		"ID", "Priority", "Subject", "Status", "Prog", "Worked", "Pend", "Total", "Due", "")
	for _, task := range tasks {
		fmt.Fprintf(&b, "  #%-5d %-10s %-40s %-14s %4d%% %7s %7s %7s  %-10s %s\n",
			task.ID,
			truncate(task.Priority, 10),
			truncate(task.Subject, 40),
			truncate(task.Status, 14),
			task.Progress,
			formatFloat(task.HoursWorked),
			formatFloat(task.HoursPending),
			formatFloat(task.HoursTotal),
			task.DueDate,
			DueLabel(task.DueStatus),
		)
	}
	return b.String()
}

// Board renders the kanban board: one section per active project branch,
// the orphan bucket last.
func Board(board report.Board) string {
	var b strings.Builder
	for _, group := range board.Groups {
		label := nodeLabel(group.Node.Project.Name, group.Depth, group.Node.Unclassified)
		b.WriteString(sectionStyle.Render(label))
		b.WriteString("\n")
		if len(group.Tasks) > 0 {
			b.WriteString(TaskTable(group.Tasks))
		}
	}
	if len(board.Orphans) > 0 {
		b.WriteString(unclassifiedStyle.Render("? " + report.UnclassifiedLabel))
		b.WriteString("\n")
		b.WriteString(TaskTable(board.Orphans))
	}
	if b.Len() == 0 {
		return "no active tasks\n"
	}
	return b.String()
}

// ProjectTree renders the project hierarchy, one project per line.
func ProjectTree(tree *hierarchy.Tree) string {
	var b strings.Builder
	tree.Walk(func(node *hierarchy.Node, depth int) {
		label := nodeLabel(node.Project.Name, depth, node.Unclassified)
		if node.Unclassified {
			label = unclassifiedStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s #%d\n", label, node.Project.ID)
	})
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
