// Package session tracks the single selected task of a view session and
// dispatches user actions against the tracking service. State is an
// explicit value passed in and returned, never package-level, so the
// machine is testable without a simulated session.
package session

import "ophub/internal/models"

// State is the selection state machine: either no selection or exactly one
// selected task id. The zero value is NoSelection.
type State struct {
	selectedID int
	selected   bool
}

// Select moves to Selected(id).
func (s State) Select(id int) State {
	return State{selectedID: id, selected: true}
}

// Clear moves back to NoSelection. Only a successful close does this
// implicitly; everything else keeps the selection.
func (s State) Clear() State {
	return State{}
}

// Selected returns the selected task id, if any.
func (s State) Selected() (int, bool) {
	return s.selectedID, s.selected
}

// Visible reports whether the current selection still exists in the given
// snapshot. After a refetch the selected task may have left the visible
// set; actions must refuse to operate on such stale selections.
func (s State) Visible(snapshot []models.EnrichedTask) bool {
	if !s.selected {
		return false
	}
	_, ok := findTask(snapshot, s.selectedID)
	return ok
}

func findTask(snapshot []models.EnrichedTask, id int) (models.EnrichedTask, bool) {
	for _, task := range snapshot {
		if task.ID == id {
			return task, true
		}
	}
	return models.EnrichedTask{}, false
}
