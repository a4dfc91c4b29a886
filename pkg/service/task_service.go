package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

// catalogEntry positions a status inside the two-level stage/status
// ordering of a workflow.
type catalogEntry struct {
	stageOrder         int
	statusOrder        int
	name               string
	isCompletionStatus bool
}

// TaskService manages tasks and gates status transitions against the
// workflow catalog: a task may only move to a status whose
// (stage_order, status_order) is lexicographically greater than or equal
// to its current position. Tasks in workflow-less projects skip validation.
type TaskService struct {
	store  storage.Store
	logger Logger
}

func NewTaskService(store storage.Store, logger Logger) *TaskService {
	return &TaskService{store: store, logger: logger}
}

// CreateTask inserts a task. When no explicit status_id is given, the
// initial status is resolved from the first stage of the project's
// workflow, the same way new projects resolve theirs.
func (s *TaskService) CreateTask(ctx context.Context, in models.CreateTask) (models.Task, error) {
	if in.Title == "" {
		return models.Task{}, validationErrorf("task title cannot be empty")
	}
	project, err := s.store.GetProject(ctx, in.ProjectID)
	if err != nil {
		return models.Task{}, err
	}

	statusID := in.StatusID
	if statusID == nil {
		st, err := resolveInitialStatus(ctx, s.store, project.WorkflowID)
		if err != nil {
			return models.Task{}, err
		}
		if st != nil {
			statusID = &st.ID
		}
	}

	now := time.Now()
	t := models.Task{
		ID:          uuid.NewString(),
		ProjectID:   in.ProjectID,
		Title:       in.Title,
		Description: in.Description,
		StatusID:    statusID,
		ExtraData:   in.ExtraData,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.SaveTask(ctx, t); err != nil {
		return models.Task{}, err
	}
	s.logger.Infof("Created task '%s' with ID %s in project %s", t.Title, t.ID, t.ProjectID)
	return s.store.GetTask(ctx, t.ID)
}

// GetTask returns the task with its resolved StageStatus embedded.
func (s *TaskService) GetTask(ctx context.Context, id string) (models.Task, error) {
	return s.store.GetTask(ctx, id)
}

// ListTasksByProject returns the project's tasks with their resolved
// StageStatus embedded.
func (s *TaskService) ListTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return s.store.ListTasksByProject(ctx, projectID)
}

// UpdateTask applies a partial update. When the update carries a status_id
// the transition is validated against the project's workflow catalog, and
// when the new status is a completion status the project completion check
// runs before the call returns. Both writes share one transaction.
func (s *TaskService) UpdateTask(ctx context.Context, id string, upd models.TaskUpdate) (task models.Task, err error) {
	txStore, err := s.store.Begin()
	if err != nil {
		return models.Task{}, err
	}
	defer func() {
		if err != nil {
			if rollbackErr := txStore.Rollback(); rollbackErr != nil {
				s.logger.Errorf("Failed to rollback after error: %v (original error: %v)", rollbackErr, err)
			}
			return
		}
		if commitErr := txStore.Commit(); commitErr != nil {
			s.logger.Errorf("Failed to commit: %v", commitErr)
			err = commitErr
		}
	}()

	if upd.StatusID != nil {
		if err = s.validateTransition(ctx, txStore, id, *upd.StatusID); err != nil {
			return models.Task{}, err
		}
	}

	task, err = txStore.UpdateTask(ctx, id, upd)
	if err != nil {
		return models.Task{}, err
	}

	if task.Status != nil && task.Status.IsCompletionStatus {
		if err = s.checkAndCompleteProject(ctx, txStore, task.ProjectID); err != nil {
			return models.Task{}, err
		}
	}
	return task, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Deleted task %s", id)
	return nil
}

// validateTransition checks that moving the task to targetStatusID does not
// go backwards in the (stage_order, status_order) ordering of its project's
// workflow. Tasks of workflow-less projects pass unvalidated.
func (s *TaskService) validateTransition(ctx context.Context, store storage.Store, taskID, targetStatusID string) error {
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := store.GetProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	if project.WorkflowID == nil || *project.WorkflowID == "" {
		s.logger.Warnf("Task %s belongs to a project without a workflow; status transition not validated", taskID)
		return nil
	}

	catalog, err := s.buildCatalog(ctx, store, *project.WorkflowID)
	if err != nil {
		return err
	}

	var current catalogEntry
	haveCurrent := false
	if task.StatusID != nil {
		current, haveCurrent = catalog[*task.StatusID]
	}
	target, haveTarget := catalog[targetStatusID]
	if !haveCurrent || !haveTarget {
		return validationErrorf("invalid current or target status ID")
	}

	if target.stageOrder < current.stageOrder {
		return validationErrorf("invalid status transition from %q to %q: cannot move to an earlier stage",
			current.name, target.name)
	}
	if target.stageOrder == current.stageOrder && target.statusOrder < current.statusOrder {
		return validationErrorf("invalid status transition from %q to %q: cannot move to a status with a lower order in the same stage",
			current.name, target.name)
	}
	return nil
}

// buildCatalog flattens a workflow's stages and statuses into one lookup of
// status id to position. Rebuilt on every transition so ordering edits take
// effect immediately; there is no cache to invalidate.
func (s *TaskService) buildCatalog(ctx context.Context, store storage.Store, workflowID string) (map[string]catalogEntry, error) {
	stages, err := store.ListStagesByWorkflow(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]catalogEntry)
	for _, stage := range stages {
		statuses, err := store.ListStatusesByStage(ctx, stage.ID)
		if err != nil {
			return nil, err
		}
		for _, st := range statuses {
			catalog[st.ID] = catalogEntry{
				stageOrder:         stage.Order,
				statusOrder:        st.Order,
				name:               st.Name,
				isCompletionStatus: st.IsCompletionStatus,
			}
		}
	}
	return catalog, nil
}

// checkAndCompleteProject marks the project "completed" once every one of
// its tasks holds a completion status. It is a pure re-evaluation of the
// current task set and is idempotent; projects without a workflow or
// without tasks are never auto-completed.
func (s *TaskService) checkAndCompleteProject(ctx context.Context, store storage.Store, projectID string) error {
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if project.WorkflowID == nil || *project.WorkflowID == "" {
		return nil
	}
	tasks, err := store.ListTasksByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	catalog, err := s.buildCatalog(ctx, store, *project.WorkflowID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.StatusID == nil {
			return nil
		}
		entry, ok := catalog[*t.StatusID]
		if !ok || !entry.isCompletionStatus {
			return nil
		}
	}

	if project.Status == models.ProjectStatusCompleted {
		return nil
	}
	if err := store.UpdateProjectStatus(ctx, projectID, models.ProjectStatusCompleted); err != nil {
		return err
	}
	s.logger.Infof("Project %s automatically marked as completed", projectID)
	return nil
}
