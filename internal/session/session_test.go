package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"ophub/internal/models"
)

type fakeService struct {
	statuses    []models.Status
	statusesErr error

	tasks   map[int]models.Task
	taskErr error

	timeEntries []models.TimeEntryRequest
	timeErr     error

	patches   []models.TaskPatch
	patchIDs  []int
	patchErrs []error
}

func (f *fakeService) Statuses(context.Context) ([]models.Status, error) {
	return f.statuses, f.statusesErr
}

func (f *fakeService) Task(_ context.Context, id int) (models.Task, error) {
	if f.taskErr != nil {
		return models.Task{}, f.taskErr
	}
	return f.tasks[id], nil
}

func (f *fakeService) CreateTimeEntry(_ context.Context, req models.TimeEntryRequest) error {
	if f.timeErr != nil {
		return f.timeErr
	}
	f.timeEntries = append(f.timeEntries, req)
	return nil
}

func (f *fakeService) UpdateTask(_ context.Context, id int, patch models.TaskPatch) error {
	f.patchIDs = append(f.patchIDs, id)
	f.patches = append(f.patches, patch)
	if len(f.patchErrs) > 0 {
		err := f.patchErrs[0]
		f.patchErrs = f.patchErrs[1:]
		return err
	}
	return nil
}

func snapshot(tasks ...models.Task) []models.EnrichedTask {
	return models.EnrichAll(tasks, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestSelectionTransitions(t *testing.T) {
	var st State
	if _, ok := st.Selected(); ok {
		t.Fatal("zero state must be NoSelection")
	}

	st = st.Select(42)
	if id, ok := st.Selected(); !ok || id != 42 {
		t.Fatalf("Selected() = %d, %v", id, ok)
	}

	st = st.Clear()
	if _, ok := st.Selected(); ok {
		t.Fatal("Clear must drop the selection")
	}
}

func TestVisible(t *testing.T) {
	st := State{}.Select(1)
	snap := snapshot(models.Task{ID: 1, LockVersion: 3})
	if !st.Visible(snap) {
		t.Fatal("selection present in snapshot")
	}
	if st.Visible(snapshot(models.Task{ID: 2})) {
		t.Fatal("selection absent from snapshot")
	}
	if (State{}).Visible(snap) {
		t.Fatal("no selection is never visible")
	}
}

func TestCloseClearsSelection(t *testing.T) {
	svc := &fakeService{statuses: []models.Status{
		{ID: 1, Name: "New"},
		{ID: 9, Name: "Cerrado"},
	}}
	machine := NewMachine(svc)
	st := State{}.Select(5)
	snap := snapshot(models.Task{ID: 5, LockVersion: 7})

	next, err := machine.Close(context.Background(), st, snap)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := next.Selected(); ok {
		t.Fatal("successful close must clear the selection")
	}
	if len(svc.patches) != 1 {
		t.Fatalf("expected one patch, got %d", len(svc.patches))
	}
	patch := svc.patches[0]
	if patch.LockVersion != 7 {
		t.Fatalf("lock version = %d, want the snapshot's 7", patch.LockVersion)
	}
	if patch.StatusID == nil || *patch.StatusID != 9 {
		t.Fatalf("status id = %v, want 9", patch.StatusID)
	}
}

func TestCloseStatusPriority(t *testing.T) {
	svc := &fakeService{statuses: []models.Status{
		{ID: 3, Name: "Done"},
		{ID: 9, Name: "Closed as duplicate"},
	}}
	machine := NewMachine(svc)
	st := State{}.Select(5)

	_, err := machine.Close(context.Background(), st, snapshot(models.Task{ID: 5}))
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	// "Closed" outranks "Done" regardless of vocabulary order.
	if got := *svc.patches[0].StatusID; got != 9 {
		t.Fatalf("resolved status %d, want 9", got)
	}
}

func TestCloseNoResolvableStatus(t *testing.T) {
	svc := &fakeService{statuses: []models.Status{{ID: 1, Name: "New"}, {ID: 2, Name: "In Progress"}}}
	machine := NewMachine(svc)
	st := State{}.Select(5)

	next, err := machine.Close(context.Background(), st, snapshot(models.Task{ID: 5}))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if len(svc.patches) != 0 {
		t.Fatal("must not guess a status id")
	}
	if _, ok := next.Selected(); !ok {
		t.Fatal("failed close must keep the selection")
	}
}

func TestCloseConflictKeepsSelection(t *testing.T) {
	conflict := errors.New("lock version conflict")
	svc := &fakeService{
		statuses:  []models.Status{{ID: 9, Name: "Closed"}},
		patchErrs: []error{conflict},
	}
	machine := NewMachine(svc)
	st := State{}.Select(5)

	next, err := machine.Close(context.Background(), st, snapshot(models.Task{ID: 5, LockVersion: 1}))
	if !errors.Is(err, conflict) {
		t.Fatalf("conflict must surface unchanged, got %v", err)
	}
	if id, ok := next.Selected(); !ok || id != 5 {
		t.Fatal("conflict must leave the state unchanged")
	}
}

func TestLogTime(t *testing.T) {
	svc := &fakeService{tasks: map[int]models.Task{5: {ID: 5, LockVersion: 12}}}
	machine := NewMachine(svc)
	st := State{}.Select(5)
	progress := 60

	next, result, err := machine.LogTime(context.Background(), st, snapshot(models.Task{ID: 5, LockVersion: 3}), LogTimeRequest{
		Hours:    1.5,
		SpentOn:  "2024-03-01",
		Comment:  "pairing",
		Progress: &progress,
	})
	if err != nil {
		t.Fatalf("log time: %v", err)
	}
	if result.Warning != "" {
		t.Fatalf("unexpected warning: %s", result.Warning)
	}
	if id, ok := next.Selected(); !ok || id != 5 {
		t.Fatal("log time must keep the selection")
	}

	if len(svc.timeEntries) != 1 || svc.timeEntries[0].Hours != 1.5 {
		t.Fatalf("time entries = %+v", svc.timeEntries)
	}
	// The progress patch uses the refetched lock version, not the snapshot's.
	if len(svc.patches) != 1 || svc.patches[0].LockVersion != 12 {
		t.Fatalf("progress patch = %+v", svc.patches)
	}
	if svc.patches[0].Progress == nil || *svc.patches[0].Progress != 60 {
		t.Fatalf("progress value = %v", svc.patches[0].Progress)
	}
}

func TestLogTimeProgressFailureIsWarning(t *testing.T) {
	svc := &fakeService{
		tasks:     map[int]models.Task{5: {ID: 5, LockVersion: 12}},
		patchErrs: []error{errors.New("boom")},
	}
	machine := NewMachine(svc)
	st := State{}.Select(5)
	progress := 80

	_, result, err := machine.LogTime(context.Background(), st, snapshot(models.Task{ID: 5}), LogTimeRequest{
		Hours: 2, SpentOn: "2024-03-01", Progress: &progress,
	})
	if err != nil {
		t.Fatalf("progress failure must not fail the operation: %v", err)
	}
	if result.Warning == "" {
		t.Fatal("progress failure must surface as a warning")
	}
	if len(svc.timeEntries) != 1 {
		t.Fatal("time entry must still be recorded")
	}
}

func TestLogTimeEntryFailureFails(t *testing.T) {
	svc := &fakeService{timeErr: errors.New("unavailable")}
	machine := NewMachine(svc)
	st := State{}.Select(5)

	_, _, err := machine.LogTime(context.Background(), st, snapshot(models.Task{ID: 5}), LogTimeRequest{Hours: 1, SpentOn: "2024-03-01"})
	if err == nil {
		t.Fatal("time entry failure must fail the operation")
	}
	if len(svc.patches) != 0 {
		t.Fatal("no progress update after a failed time entry")
	}
}

func TestLogTimeRejectsNonPositiveHours(t *testing.T) {
	machine := NewMachine(&fakeService{})
	st := State{}.Select(5)
	for _, hours := range []float64{0, -1} {
		if _, _, err := machine.LogTime(context.Background(), st, snapshot(models.Task{ID: 5}), LogTimeRequest{Hours: hours}); err == nil {
			t.Fatalf("hours %v must be rejected", hours)
		}
	}
}

func TestEditPartialPatch(t *testing.T) {
	svc := &fakeService{}
	machine := NewMachine(svc)
	st := State{}.Select(5)
	subject := "new subject"

	_, err := machine.Edit(context.Background(), st, snapshot(models.Task{ID: 5, LockVersion: 4}), models.TaskPatch{
		LockVersion: 4,
		Subject:     &subject,
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	patch := svc.patches[0]
	if patch.Subject == nil || *patch.Subject != subject {
		t.Fatalf("patch subject = %v", patch.Subject)
	}
	if patch.DueDate != nil || patch.EstimatedHours != nil || patch.StatusID != nil {
		t.Fatalf("unsupplied fields must stay out of the patch: %+v", patch)
	}
}

func TestEditEmptyPatch(t *testing.T) {
	machine := NewMachine(&fakeService{})
	st := State{}.Select(5)
	if _, err := machine.Edit(context.Background(), st, snapshot(models.Task{ID: 5}), models.TaskPatch{LockVersion: 4}); err == nil {
		t.Fatal("empty patch must be rejected")
	}
}

func TestActionsRequireVisibleSelection(t *testing.T) {
	machine := NewMachine(&fakeService{})

	_, err := machine.Close(context.Background(), State{}, nil)
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}

	stale := State{}.Select(99)
	_, err = machine.Close(context.Background(), stale, snapshot(models.Task{ID: 1}))
	if !errors.Is(err, ErrSelectionNotVisible) {
		t.Fatalf("expected ErrSelectionNotVisible, got %v", err)
	}
	_, _, err = machine.LogTime(context.Background(), stale, snapshot(models.Task{ID: 1}), LogTimeRequest{Hours: 1})
	if !errors.Is(err, ErrSelectionNotVisible) {
		t.Fatalf("expected ErrSelectionNotVisible, got %v", err)
	}
}
