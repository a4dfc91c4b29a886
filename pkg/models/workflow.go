package models

import "time"

// Workflow is a named, ordered pipeline of stages that a project can be
// assigned to. Projects reference workflows by id; deleting a workflow
// cascades to its stages and statuses at the persistence layer.
type Workflow struct {
	ID             string    `json:"id" db:"id"`                                     // UUID primary key
	Name           string    `json:"name" db:"name"`                                 // Descriptive name (e.g., "Software Development")
	OrganizationID *string   `json:"organization_id,omitempty" db:"organization_id"` // Optional owning organization
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// WorkflowStage is an ordered phase within a workflow. Stages of the same
// workflow are always read back sorted ascending by Order.
type WorkflowStage struct {
	ID         string    `json:"id" db:"id"`
	WorkflowID string    `json:"workflow_id" db:"workflow_id"` // Foreign key to Workflow
	Name       string    `json:"name" db:"name"`               // e.g., "Todo", "In Progress", "Done"
	Order      int       `json:"order" db:"order"`             // Position among sibling stages
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// StageStatus is a named state within a stage. IsDefault marks the status
// assigned to tasks entering the stage; IsCompletionStatus marks statuses
// that count as done for project completion detection.
type StageStatus struct {
	ID                 string    `json:"id" db:"id"`
	StageID            string    `json:"stage_id" db:"stage_id"` // Foreign key to WorkflowStage
	Name               string    `json:"name" db:"name"`
	Order              int       `json:"order" db:"order"` // Position among sibling statuses
	IsDefault          bool      `json:"is_default" db:"is_default"`
	IsCompletionStatus bool      `json:"is_completion_status" db:"is_completion_status"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// WorkflowUpdate is a partial update; nil fields are left untouched.
type WorkflowUpdate struct {
	Name           *string `json:"name,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

// StageUpdate is a partial update; nil fields are left untouched.
type StageUpdate struct {
	Name  *string `json:"name,omitempty"`
	Order *int    `json:"order,omitempty"`
}

// StatusUpdate is a partial update; nil fields are left untouched.
type StatusUpdate struct {
	Name               *string `json:"name,omitempty"`
	Order              *int    `json:"order,omitempty"`
	IsDefault          *bool   `json:"is_default,omitempty"`
	IsCompletionStatus *bool   `json:"is_completion_status,omitempty"`
}
