package models

// CreateTaskRequest is the desired-state payload for fast-track capture.
// The task is always assigned to the authenticated user.
type CreateTaskRequest struct {
	ProjectID      int     `json:"project_id"`
	Subject        string  `json:"subject"`
	TypeID         int     `json:"type_id"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
	DueDate        string  `json:"due_date,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// TaskPatch is a partial update of a work package. Only non-nil fields are
// sent. LockVersion must be the version last observed by the caller; the
// service rejects stale versions and the caller must refetch before
// retrying.
type TaskPatch struct {
	LockVersion    int      `json:"lock_version"`
	Subject        *string  `json:"subject,omitempty"`
	Description    *string  `json:"description,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	StatusID       *int     `json:"status_id,omitempty"`
	Progress       *int     `json:"progress,omitempty"`
}

// IsEmpty reports whether the patch carries no field changes.
func (p TaskPatch) IsEmpty() bool {
	return p.Subject == nil && p.Description == nil && p.DueDate == nil &&
		p.EstimatedHours == nil && p.StatusID == nil && p.Progress == nil
}

// TimeEntryRequest records hours against a work package.
type TimeEntryRequest struct {
	TaskID  int     `json:"task_id"`
	Hours   float64 `json:"hours"`
	SpentOn string  `json:"spent_on"`
	Comment string  `json:"comment,omitempty"`
}
