package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ophub/internal/models"
)

// Service is the slice of the tracking service the action machine needs.
// Implementations perform exactly one round trip per call and surface
// lock-version conflicts as distinct errors.
type Service interface {
	Statuses(ctx context.Context) ([]models.Status, error)
	Task(ctx context.Context, id int) (models.Task, error)
	CreateTimeEntry(ctx context.Context, req models.TimeEntryRequest) error
	UpdateTask(ctx context.Context, id int, patch models.TaskPatch) error
}

var (
	// ErrNoSelection is returned when an action runs without a selected task.
	ErrNoSelection = errors.New("no task selected")
	// ErrSelectionNotVisible is returned when the selected task has left the
	// visible snapshot; the caller should refetch and reselect.
	ErrSelectionNotVisible = errors.New("selected task is no longer visible")
)

// ConfigError reports a misconfigured instance (for example no closable
// status in the vocabulary). It is fatal for the one operation only.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// closeStatusNames is the priority-ordered list used to resolve a closing
// status id from the instance vocabulary.
var closeStatusNames = []string{"Closed", "Cerrado", "Done", "Finalizado"}

// Machine executes actions for the current selection.
type Machine struct {
	svc Service
}

// NewMachine returns an action machine backed by svc.
func NewMachine(svc Service) *Machine {
	return &Machine{svc: svc}
}

// LogTimeRequest is the user intent behind a log-time action. Progress is
// optional; when set, the progress update runs as an independent
// best-effort second step.
type LogTimeRequest struct {
	Hours    float64
	SpentOn  string
	Comment  string
	Progress *int
}

// LogTimeResult reports a succeeded log-time action. Warning is non-empty
// when the secondary progress update failed; the time entry itself was
// still created.
type LogTimeResult struct {
	TaskID  int
	Warning string
}

// LogTime creates a time entry for the selected task, then optionally
// updates its progress. A progress failure never fails the operation; a
// time-entry failure always does. The selection is kept either way.
func (m *Machine) LogTime(ctx context.Context, st State, snapshot []models.EnrichedTask, req LogTimeRequest) (State, LogTimeResult, error) {
	task, err := m.resolve(st, snapshot)
	if err != nil {
		return st, LogTimeResult{}, err
	}
	if req.Hours <= 0 {
		return st, LogTimeResult{}, fmt.Errorf("hours must be positive, got %v", req.Hours)
	}

	entry := models.TimeEntryRequest{
		TaskID:  task.ID,
		Hours:   req.Hours,
		SpentOn: req.SpentOn,
		Comment: req.Comment,
	}
	if err := m.svc.CreateTimeEntry(ctx, entry); err != nil {
		return st, LogTimeResult{}, fmt.Errorf("log time on #%d: %w", task.ID, err)
	}

	result := LogTimeResult{TaskID: task.ID}
	if req.Progress != nil {
		if err := m.updateProgress(ctx, task.ID, *req.Progress); err != nil {
			result.Warning = fmt.Sprintf("time logged, but progress update failed: %v", err)
		}
	}
	return st, result, nil
}

// updateProgress refetches the task for a fresh lock version before
// patching. It is the only place a lock version is read server-side
// rather than taken from the caller's snapshot.
func (m *Machine) updateProgress(ctx context.Context, taskID, progress int) error {
	fresh, err := m.svc.Task(ctx, taskID)
	if err != nil {
		return err
	}
	patch := models.TaskPatch{LockVersion: fresh.LockVersion, Progress: &progress}
	return m.svc.UpdateTask(ctx, taskID, patch)
}

// Edit applies a partial update to the selected task. The patch's lock
// version must be the one last observed by the caller; a stale version
// comes back as a conflict error which is passed through untouched so the
// caller can refetch before retrying. The machine never retries and never
// synthesizes a lock version.
func (m *Machine) Edit(ctx context.Context, st State, snapshot []models.EnrichedTask, patch models.TaskPatch) (State, error) {
	task, err := m.resolve(st, snapshot)
	if err != nil {
		return st, err
	}
	if patch.IsEmpty() {
		return st, errors.New("no fields to update")
	}
	if err := m.svc.UpdateTask(ctx, task.ID, patch); err != nil {
		return st, fmt.Errorf("edit #%d: %w", task.ID, err)
	}
	return st, nil
}

// Close resolves a closing status from the instance vocabulary and patches
// the selected task with it, using the lock version from the snapshot.
// Success clears the selection; any failure leaves it untouched.
func (m *Machine) Close(ctx context.Context, st State, snapshot []models.EnrichedTask) (State, error) {
	task, err := m.resolve(st, snapshot)
	if err != nil {
		return st, err
	}

	statuses, err := m.svc.Statuses(ctx)
	if err != nil {
		return st, fmt.Errorf("fetch status vocabulary: %w", err)
	}
	statusID, ok := ResolveCloseStatus(statuses)
	if !ok {
		return st, &ConfigError{Reason: fmt.Sprintf(
			"no closing status found; expected one of %s in the status vocabulary",
			strings.Join(closeStatusNames, ", "))}
	}

	patch := models.TaskPatch{LockVersion: task.LockVersion, StatusID: &statusID}
	if err := m.svc.UpdateTask(ctx, task.ID, patch); err != nil {
		return st, fmt.Errorf("close #%d: %w", task.ID, err)
	}
	return st.Clear(), nil
}

// ResolveCloseStatus scans the vocabulary with the priority-ordered close
// names, matching case-insensitively on substrings. It never guesses an
// id when nothing matches.
func ResolveCloseStatus(statuses []models.Status) (int, bool) {
	for _, name := range closeStatusNames {
		needle := strings.ToLower(name)
		for _, status := range statuses {
			if strings.Contains(strings.ToLower(status.Name), needle) {
				return status.ID, true
			}
		}
	}
	return 0, false
}

func (m *Machine) resolve(st State, snapshot []models.EnrichedTask) (models.EnrichedTask, error) {
	id, ok := st.Selected()
	if !ok {
		return models.EnrichedTask{}, ErrNoSelection
	}
	task, ok := findTask(snapshot, id)
	if !ok {
		return models.EnrichedTask{}, ErrSelectionNotVisible
	}
	return task, nil
}
