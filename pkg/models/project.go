// Package models contains domain types for taskify.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a named unit of work owned by exactly one user.
// UserID never changes after creation.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectSummary is a project annotated with the number of tasks it holds.
type ProjectSummary struct {
	Project
	TaskCount int `json:"task_count"`
}

// ProjectWithTasks is a project with its tasks, ordered by status
// precedence and then newest first.
type ProjectWithTasks struct {
	Project
	Tasks []*Task `json:"tasks"`
}

// ProjectUpdate carries the fields of a partial project update.
// Fields left unset are not touched.
type ProjectUpdate struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
}

// IsEmpty reports whether no field was supplied.
func (u ProjectUpdate) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set
}
