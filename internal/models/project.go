package models

// Project is a read-only snapshot of an OpenProject project. ParentID is
// nil for root projects; a non-nil ParentID may reference a project that
// was not returned by the fetch (dangling reference).
type Project struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ParentID *int   `json:"parent_id,omitempty"`
}

// Status is an entry of the instance's status vocabulary.
type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User identifies a principal the instance knows about.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// WorkType is an available work package type (Task, Bug, Phase, ...).
type WorkType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Role is a project membership role.
type Role struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
