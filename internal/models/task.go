package models

import (
	"time"

	"ophub/internal/duedate"
	"ophub/internal/duration"
)

// Task is a work package snapshot as fetched from the tracking service.
// ProjectID is nil when the project reference could not be resolved; such
// tasks are bucketed as unclassified, never dropped. Duration fields keep
// the raw PT notation; empty string means the field was absent.
type Task struct {
	ID            int    `json:"id"`
	ProjectID     *int   `json:"project_id,omitempty"`
	ProjectName   string `json:"project_name,omitempty"`
	Subject       string `json:"subject"`
	Status        string `json:"status"`
	Priority      string `json:"priority,omitempty"`
	Assignee      string `json:"assignee,omitempty"`
	Progress      int    `json:"progress"`
	LockVersion   int    `json:"lock_version"`
	UpdatedAt     string `json:"updated_at,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	EstimatedTime string `json:"estimated_time,omitempty"`
	SpentTime     string `json:"spent_time,omitempty"`
}

// EnrichedTask carries the derived display fields computed from a Task.
// HoursPending may be negative when a task is over-spent; that is valid
// and is preserved.
type EnrichedTask struct {
	Task

	HoursTotal   float64        `json:"hours_total"`
	HoursWorked  float64        `json:"hours_worked"`
	HoursPending float64        `json:"hours_pending"`
	DueStatus    duedate.Status `json:"due_status"`
}

// Enrich computes the derived fields for one task.
func Enrich(task Task, today time.Time) EnrichedTask {
	total := duration.Hours(task.EstimatedTime)
	worked := duration.Hours(task.SpentTime)
	return EnrichedTask{
		Task:         task,
		HoursTotal:   total,
		HoursWorked:  worked,
		HoursPending: total - worked,
		DueStatus:    duedate.Classify(task.DueDate, today),
	}
}

// EnrichAll enriches a fetched task collection in order.
func EnrichAll(tasks []Task, today time.Time) []EnrichedTask {
	out := make([]EnrichedTask, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, Enrich(task, today))
	}
	return out
}
