package models

import "strings"

// Status names on an OpenProject instance are free text and often
// localized, so closed-ness is decided by substring matching against a
// fixed English/Spanish keyword set rather than an enum.

// closureKeywords mark a status as closed for report roll-ups.
var closureKeywords = []string{"close", "cerrad", "finaliza", "done", "reject"}

// inactiveKeywords mark a status as no longer actionable; tasks matching
// them are hidden from the kanban view.
var inactiveKeywords = []string{"close", "cerrad", "reject"}

// IsClosedStatus reports whether a status name counts as closed for
// aggregation purposes. Matching is a case-insensitive substring check.
func IsClosedStatus(status string) bool {
	return matchesAny(status, closureKeywords)
}

// IsInactiveStatus reports whether a status name should hide the task from
// the active kanban view.
func IsInactiveStatus(status string) bool {
	return matchesAny(status, inactiveKeywords)
}

func matchesAny(status string, keywords []string) bool {
	lowered := strings.ToLower(status)
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
