package models

import (
	"time"

	"github.com/lib/pq"
)

// Project statuses used when no workflow is assigned. With a workflow
// assigned, Project.Status mirrors a StageStatus name and is free-form.
const (
	ProjectStatusNew        = "new"
	ProjectStatusPredicting = "predicting"
	ProjectStatusCompleted  = "completed"
)

// Project is the unit of work tasks belong to. Status starts from the
// default status of the first stage of the assigned workflow (or "new"
// without one) and is flipped to "completed" by the completion monitor once
// every task holds a completion status.
type Project struct {
	ID                    string         `json:"id" db:"id"`
	Name                  string         `json:"name" db:"name"`
	Client                string         `json:"client" db:"client"`
	Status                string         `json:"status" db:"status"`
	Description           string         `json:"description" db:"description"`
	ProjectType           string         `json:"project_type" db:"project_type"`
	ClientIndustry        string         `json:"client_industry" db:"client_industry"`
	TechStack             pq.StringArray `json:"tech_stack" db:"tech_stack"`
	TeamSize              string         `json:"team_size" db:"team_size"`
	Duration              string         `json:"duration" db:"duration"`
	Keywords              string         `json:"keywords" db:"keywords"`
	BusinessSpecification string         `json:"business_specification" db:"business_specification"`
	ReportGenerated       bool           `json:"report_generated" db:"report_generated"`
	WorkflowID            *string        `json:"workflow_id,omitempty" db:"workflow_id"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at" db:"updated_at"`
}

// CreateProject carries the fields accepted on project creation.
type CreateProject struct {
	ProjectName           string   `json:"project_name"`
	ClientName            string   `json:"client_name"`
	Description           string   `json:"description"`
	ProjectType           string   `json:"project_type"`
	ClientIndustry        string   `json:"client_industry"`
	TechStack             []string `json:"tech_stack"`
	TeamSize              string   `json:"team_size"`
	Duration              string   `json:"duration"`
	Keywords              string   `json:"keywords"`
	BusinessSpecification string   `json:"business_specification"`
	WorkflowID            *string  `json:"workflow_id,omitempty"`
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Name                  *string  `json:"name,omitempty"`
	Client                *string  `json:"client,omitempty"`
	Description           *string  `json:"description,omitempty"`
	ProjectType           *string  `json:"project_type,omitempty"`
	ClientIndustry        *string  `json:"client_industry,omitempty"`
	TechStack             []string `json:"tech_stack,omitempty"`
	TeamSize              *string  `json:"team_size,omitempty"`
	Duration              *string  `json:"duration,omitempty"`
	Keywords              *string  `json:"keywords,omitempty"`
	BusinessSpecification *string  `json:"business_specification,omitempty"`
	ReportGenerated       *bool    `json:"report_generated,omitempty"`
	WorkflowID            *string  `json:"workflow_id,omitempty"`
}
