package models

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to exactly one project. Its effective owner is the
// project's owner, and ProjectID never changes after creation.
type Task struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description *string     `json:"description"`
	StatusID    int         `json:"status_id"`
	Status      *TaskStatus `json:"status,omitempty"`
	ProjectID   uuid.UUID   `json:"project_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskStatus is a row of the fixed status lookup table.
// SortOrder drives task ordering: lower sorts first.
type TaskStatus struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// Well-known status ids seeded by the initial migration.
const (
	StatusIncomplete = 1
	StatusInProgress = 2
	StatusDone       = 3
)

// TaskUpdate carries the fields of a partial task update.
type TaskUpdate struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	StatusID    Optional[int]    `json:"status_id"`
}

// IsEmpty reports whether no field was supplied.
func (u TaskUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set && !u.StatusID.Set
}
