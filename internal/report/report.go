// Package report computes roll-up metrics over a project tree and groups
// tasks for the kanban view. All inputs are immutable snapshots; nothing
// here talks to the network.
package report

import (
	"math"

	"ophub/internal/duration"
	"ophub/internal/hierarchy"
	"ophub/internal/models"
)

// UnclassifiedLabel names the synthetic bucket for tasks whose project
// reference does not resolve to any known project.
const UnclassifiedLabel = "Unclassified"

// Metrics are the per-node roll-up values over the node's direct tasks
// only (descendants report their own rows). Float fields are rounded to
// one decimal place for display; the underlying sums run over the raw
// two-decimal per-task values so rounding error does not compound.
type Metrics struct {
	TotalTasks     int     `json:"total_tasks"`
	ClosedTasks    int     `json:"closed_tasks"`
	AvgProgress    float64 `json:"avg_progress"`
	HoursEstimated float64 `json:"hours_estimated"`
	HoursSpent     float64 `json:"hours_spent"`
	HoursPending   float64 `json:"hours_pending"`
}

// Row is one line of the management report.
type Row struct {
	ProjectID    int    `json:"project_id,omitempty"`
	Name         string `json:"name"`
	Depth        int    `json:"depth"`
	Unclassified bool   `json:"unclassified,omitempty"`
	Metrics
}

// HoursBreakdown is the chart-oriented view: hours per project, only for
// projects that actually carry tasks.
type HoursBreakdown struct {
	Name           string  `json:"name"`
	HoursEstimated float64 `json:"hours_estimated"`
	HoursSpent     float64 `json:"hours_spent"`
	HoursPending   float64 `json:"hours_pending"`
}

// BuildRows walks the tree pre-order so a parent's row always precedes its
// children's rows, then appends the orphan bucket when any task references
// an unknown project.
func BuildRows(tree *hierarchy.Tree, tasks []models.EnrichedTask) []Row {
	index := indexByProject(tree, tasks)

	var rows []Row
	tree.Walk(func(node *hierarchy.Node, depth int) {
		rows = append(rows, Row{
			ProjectID:    node.Project.ID,
			Name:         node.Project.Name,
			Depth:        depth,
			Unclassified: node.Unclassified,
			Metrics:      metricsFor(index.direct[node.Project.ID]),
		})
	})

	if len(index.orphans) > 0 {
		rows = append(rows, Row{
			Name:         UnclassifiedLabel,
			Unclassified: true,
			Metrics:      metricsFor(index.orphans),
		})
	}

	return rows
}

// BuildHoursBreakdown returns chart rows for every project with at least
// one direct task, in report order, plus the orphan bucket.
func BuildHoursBreakdown(tree *hierarchy.Tree, tasks []models.EnrichedTask) []HoursBreakdown {
	index := indexByProject(tree, tasks)

	var rows []HoursBreakdown
	tree.Walk(func(node *hierarchy.Node, _ int) {
		direct := index.direct[node.Project.ID]
		if len(direct) == 0 {
			return
		}
		estimated, spent := sumHours(direct)
		rows = append(rows, HoursBreakdown{
			Name:           node.Project.Name,
			HoursEstimated: estimated,
			HoursSpent:     spent,
			HoursPending:   estimated - spent,
		})
	})

	if len(index.orphans) > 0 {
		estimated, spent := sumHours(index.orphans)
		rows = append(rows, HoursBreakdown{
			Name:           UnclassifiedLabel,
			HoursEstimated: estimated,
			HoursSpent:     spent,
			HoursPending:   estimated - spent,
		})
	}

	return rows
}

type taskIndex struct {
	direct  map[int][]models.EnrichedTask
	orphans []models.EnrichedTask
}

func indexByProject(tree *hierarchy.Tree, tasks []models.EnrichedTask) taskIndex {
	index := taskIndex{direct: make(map[int][]models.EnrichedTask)}
	for _, task := range tasks {
		if task.ProjectID == nil || !tree.Has(*task.ProjectID) {
			index.orphans = append(index.orphans, task)
			continue
		}
		index.direct[*task.ProjectID] = append(index.direct[*task.ProjectID], task)
	}
	return index
}

func metricsFor(tasks []models.EnrichedTask) Metrics {
	metrics := Metrics{TotalTasks: len(tasks)}
	if len(tasks) == 0 {
		return metrics
	}

	progressSum := 0
	for _, task := range tasks {
		if models.IsClosedStatus(task.Status) {
			metrics.ClosedTasks++
		}
		progressSum += task.Progress
	}
	estimated, spent := sumHours(tasks)

	metrics.AvgProgress = round1(float64(progressSum) / float64(len(tasks)))
	metrics.HoursEstimated = round1(estimated)
	metrics.HoursSpent = round1(spent)
	metrics.HoursPending = round1(estimated - spent)
	return metrics
}

func sumHours(tasks []models.EnrichedTask) (estimated, spent float64) {
	for _, task := range tasks {
		estimated += task.HoursTotal
		spent += task.HoursWorked
	}
	return duration.Round2(estimated), duration.Round2(spent)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
