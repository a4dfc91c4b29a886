package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update carries a stale version.
var ErrConflict = errors.New("version conflict")

// Store defines the persistence operations for the project-management
// backend. Begin returns a transactional view of the same interface;
// Commit/Rollback only make sense on that view.
type Store interface {
	Begin() (Store, error)
	Commit() error
	Rollback() error
	Close() error

	// Workflow catalog
	SaveWorkflow(ctx context.Context, w models.Workflow) error
	ListWorkflows(ctx context.Context) ([]models.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (models.Workflow, error)
	UpdateWorkflow(ctx context.Context, id string, upd models.WorkflowUpdate) (models.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error

	SaveStage(ctx context.Context, st models.WorkflowStage) error
	// ListStagesByWorkflow returns stages sorted ascending by "order".
	ListStagesByWorkflow(ctx context.Context, workflowID string) ([]models.WorkflowStage, error)
	GetStage(ctx context.Context, id string) (models.WorkflowStage, error)
	UpdateStage(ctx context.Context, id string, upd models.StageUpdate) (models.WorkflowStage, error)
	DeleteStage(ctx context.Context, id string) error

	SaveStatus(ctx context.Context, st models.StageStatus) error
	// ListStatusesByStage returns statuses sorted ascending by "order".
	ListStatusesByStage(ctx context.Context, stageID string) ([]models.StageStatus, error)
	GetStatus(ctx context.Context, id string) (models.StageStatus, error)
	UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (models.StageStatus, error)
	DeleteStatus(ctx context.Context, id string) error

	// Task operations; reads resolve the joined StageStatus.
	SaveTask(ctx context.Context, t models.Task) error
	GetTask(ctx context.Context, id string) (models.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, upd models.TaskUpdate) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Project operations
	SaveProject(ctx context.Context, p models.Project) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	UpdateProject(ctx context.Context, id string, upd models.ProjectUpdate) (models.Project, error)
	UpdateProjectStatus(ctx context.Context, id, status string) error
	DeleteProject(ctx context.Context, id string) error
}
