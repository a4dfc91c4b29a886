package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

// WorkflowService manages the workflow/stage/status catalog. It performs no
// cross-entity validation; the state machine in TaskService and the
// bootstrap logic consume the catalog it maintains.
type WorkflowService struct {
	store  storage.Store
	logger Logger
}

func NewWorkflowService(store storage.Store, logger Logger) *WorkflowService {
	return &WorkflowService{store: store, logger: logger}
}

func (s *WorkflowService) CreateWorkflow(ctx context.Context, name string, organizationID *string) (models.Workflow, error) {
	if name == "" {
		return models.Workflow{}, validationErrorf("workflow name cannot be empty")
	}
	if len(name) > 100 {
		return models.Workflow{}, validationErrorf("workflow name too long (max 100 characters)")
	}
	now := time.Now()
	w := models.Workflow{
		ID:             uuid.NewString(),
		Name:           name,
		OrganizationID: organizationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.SaveWorkflow(ctx, w); err != nil {
		return models.Workflow{}, err
	}
	s.logger.Infof("Created workflow '%s' with ID %s", name, w.ID)
	return w, nil
}

func (s *WorkflowService) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	return s.store.ListWorkflows(ctx)
}

func (s *WorkflowService) GetWorkflow(ctx context.Context, id string) (models.Workflow, error) {
	return s.store.GetWorkflow(ctx, id)
}

func (s *WorkflowService) UpdateWorkflow(ctx context.Context, id string, upd models.WorkflowUpdate) (models.Workflow, error) {
	if upd.Name != nil && *upd.Name == "" {
		return models.Workflow{}, validationErrorf("workflow name cannot be empty")
	}
	return s.store.UpdateWorkflow(ctx, id, upd)
}

// DeleteWorkflow removes a workflow; the schema cascades the delete to its
// stages and statuses. Deleting an absent id is a no-op success.
func (s *WorkflowService) DeleteWorkflow(ctx context.Context, id string) error {
	if err := s.store.DeleteWorkflow(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Deleted workflow %s", id)
	return nil
}

func (s *WorkflowService) CreateStage(ctx context.Context, name string, order int, workflowID string) (models.WorkflowStage, error) {
	if name == "" {
		return models.WorkflowStage{}, validationErrorf("stage name cannot be empty")
	}
	if order < 0 {
		return models.WorkflowStage{}, validationErrorf("stage order must be non-negative")
	}
	if workflowID == "" {
		return models.WorkflowStage{}, validationErrorf("stage workflow_id is required")
	}
	now := time.Now()
	st := models.WorkflowStage{
		ID:         uuid.NewString(),
		WorkflowID: workflowID,
		Name:       name,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.SaveStage(ctx, st); err != nil {
		return models.WorkflowStage{}, err
	}
	s.logger.Infof("Created stage '%s' (order %d) in workflow %s", name, order, workflowID)
	return st, nil
}

// ListStagesByWorkflow returns the workflow's stages sorted ascending by
// order. Every downstream consumer relies on this ordering.
func (s *WorkflowService) ListStagesByWorkflow(ctx context.Context, workflowID string) ([]models.WorkflowStage, error) {
	return s.store.ListStagesByWorkflow(ctx, workflowID)
}

func (s *WorkflowService) GetStage(ctx context.Context, id string) (models.WorkflowStage, error) {
	return s.store.GetStage(ctx, id)
}

func (s *WorkflowService) UpdateStage(ctx context.Context, id string, upd models.StageUpdate) (models.WorkflowStage, error) {
	if upd.Name != nil && *upd.Name == "" {
		return models.WorkflowStage{}, validationErrorf("stage name cannot be empty")
	}
	if upd.Order != nil && *upd.Order < 0 {
		return models.WorkflowStage{}, validationErrorf("stage order must be non-negative")
	}
	return s.store.UpdateStage(ctx, id, upd)
}

func (s *WorkflowService) DeleteStage(ctx context.Context, id string) error {
	return s.store.DeleteStage(ctx, id)
}

func (s *WorkflowService) CreateStatus(ctx context.Context, name string, order int, stageID string, isDefault, isCompletionStatus bool) (models.StageStatus, error) {
	if name == "" {
		return models.StageStatus{}, validationErrorf("status name cannot be empty")
	}
	if order < 0 {
		return models.StageStatus{}, validationErrorf("status order must be non-negative")
	}
	if stageID == "" {
		return models.StageStatus{}, validationErrorf("status stage_id is required")
	}
	now := time.Now()
	st := models.StageStatus{
		ID:                 uuid.NewString(),
		StageID:            stageID,
		Name:               name,
		Order:              order,
		IsDefault:          isDefault,
		IsCompletionStatus: isCompletionStatus,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.SaveStatus(ctx, st); err != nil {
		return models.StageStatus{}, err
	}
	s.logger.Infof("Created status '%s' (order %d) in stage %s", name, order, stageID)
	return st, nil
}

// ListStatusesByStage returns the stage's statuses sorted ascending by order.
func (s *WorkflowService) ListStatusesByStage(ctx context.Context, stageID string) ([]models.StageStatus, error) {
	return s.store.ListStatusesByStage(ctx, stageID)
}

func (s *WorkflowService) GetStatus(ctx context.Context, id string) (models.StageStatus, error) {
	return s.store.GetStatus(ctx, id)
}

func (s *WorkflowService) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (models.StageStatus, error) {
	if upd.Name != nil && *upd.Name == "" {
		return models.StageStatus{}, validationErrorf("status name cannot be empty")
	}
	if upd.Order != nil && *upd.Order < 0 {
		return models.StageStatus{}, validationErrorf("status order must be non-negative")
	}
	return s.store.UpdateStatus(ctx, id, upd)
}

func (s *WorkflowService) DeleteStatus(ctx context.Context, id string) error {
	return s.store.DeleteStatus(ctx, id)
}
