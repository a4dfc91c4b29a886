package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Task belongs to exactly one project. StatusID points into the stage/status
// catalog of the project's workflow; it is nil for tasks in workflow-less
// projects. Version is bumped on every update and backs the optimistic
// concurrency check on status transitions.
type Task struct {
	ID          string         `json:"id" db:"id"`
	ProjectID   string         `json:"project_id" db:"project_id"`
	Title       string         `json:"title" db:"title"`
	Description *string        `json:"description,omitempty" db:"description"`
	StatusID    *string        `json:"status_id,omitempty" db:"status_id"`
	Status      *StageStatus   `json:"status,omitempty" db:"-"` // Resolved StageStatus, populated on reads
	ExtraData   types.JSONText `json:"extra_data,omitempty" db:"extra_data"`
	Version     int64          `json:"version" db:"version"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateTask carries the fields accepted on task creation. A nil StatusID is
// resolved from the first stage of the project's workflow.
type CreateTask struct {
	ProjectID   string         `json:"project_id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	StatusID    *string        `json:"status_id,omitempty"`
	ExtraData   types.JSONText `json:"extra_data,omitempty"`
}

// TaskUpdate is a partial update; nil fields are left untouched. A non-nil
// StatusID triggers transition validation against the workflow catalog.
// Version, when set, is the version the caller last read; the update is
// rejected as a conflict if the row has moved on since.
type TaskUpdate struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	StatusID    *string        `json:"status_id,omitempty"`
	ExtraData   types.JSONText `json:"extra_data,omitempty"`
	Version     *int64         `json:"version,omitempty"`
}
