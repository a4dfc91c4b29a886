package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

// ProjectService manages projects. New projects start from the default
// status of the first stage of their workflow; without a workflow the
// status is the closed enum new/predicting/completed.
type ProjectService struct {
	store  storage.Store
	logger Logger
}

func NewProjectService(store storage.Store, logger Logger) *ProjectService {
	return &ProjectService{store: store, logger: logger}
}

func (s *ProjectService) CreateProject(ctx context.Context, in models.CreateProject) (models.Project, error) {
	if in.ProjectName == "" {
		return models.Project{}, validationErrorf("project name cannot be empty")
	}
	if in.WorkflowID != nil && *in.WorkflowID != "" {
		if _, err := s.store.GetWorkflow(ctx, *in.WorkflowID); err != nil {
			return models.Project{}, err
		}
	}

	initialStatus := models.ProjectStatusNew
	st, err := resolveInitialStatus(ctx, s.store, in.WorkflowID)
	if err != nil {
		return models.Project{}, err
	}
	if st != nil {
		initialStatus = st.Name
	}

	now := time.Now()
	p := models.Project{
		ID:                    uuid.NewString(),
		Name:                  in.ProjectName,
		Client:                in.ClientName,
		Status:                initialStatus,
		Description:           in.Description,
		ProjectType:           in.ProjectType,
		ClientIndustry:        in.ClientIndustry,
		TechStack:             in.TechStack,
		TeamSize:              in.TeamSize,
		Duration:              in.Duration,
		Keywords:              in.Keywords,
		BusinessSpecification: in.BusinessSpecification,
		ReportGenerated:       false,
		WorkflowID:            in.WorkflowID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.store.SaveProject(ctx, p); err != nil {
		return models.Project{}, err
	}
	s.logger.Infof("Created project '%s' with ID %s (status '%s')", p.Name, p.ID, p.Status)
	return p, nil
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.store.ListProjects(ctx)
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (models.Project, error) {
	return s.store.GetProject(ctx, id)
}

func (s *ProjectService) UpdateProject(ctx context.Context, id string, upd models.ProjectUpdate) (models.Project, error) {
	if upd.Name != nil && *upd.Name == "" {
		return models.Project{}, validationErrorf("project name cannot be empty")
	}
	return s.store.UpdateProject(ctx, id, upd)
}

// UpdateProjectStatus sets the project status directly. With a workflow
// assigned the status mirrors a stage status name and any non-empty string
// is accepted; without one it must be one of the closed enum values.
func (s *ProjectService) UpdateProjectStatus(ctx context.Context, id, status string) (models.Project, error) {
	if status == "" {
		return models.Project{}, validationErrorf("project status cannot be empty")
	}
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	if p.WorkflowID == nil || *p.WorkflowID == "" {
		switch status {
		case models.ProjectStatusNew, models.ProjectStatusPredicting, models.ProjectStatusCompleted:
		default:
			return models.Project{}, validationErrorf("invalid project status %q; must be 'new', 'predicting' or 'completed'", status)
		}
	}
	if err := s.store.UpdateProjectStatus(ctx, id, status); err != nil {
		return models.Project{}, err
	}
	p.Status = status
	s.logger.Infof("Updated project %s to status '%s'", id, status)
	return p, nil
}

// UpdateReportGenerated flips the report flag once the report pipeline has
// produced output for the project.
func (s *ProjectService) UpdateReportGenerated(ctx context.Context, id string, generated bool) (models.Project, error) {
	return s.store.UpdateProject(ctx, id, models.ProjectUpdate{ReportGenerated: &generated})
}

func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("Deleted project %s", id)
	return nil
}
