package service

import (
	"context"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

// Logger defines the logging interface the services depend on.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// resolveInitialStatus picks the starting status for a new project or task
// from its workflow: the first stage's default status, its first status by
// order if none is marked default, or nil when the workflow has no stages
// or statuses (or workflowID itself is nil). Project creation uses the
// returned status name, task creation its id; both share this one lookup.
func resolveInitialStatus(ctx context.Context, store storage.Store, workflowID *string) (*models.StageStatus, error) {
	if workflowID == nil || *workflowID == "" {
		return nil, nil
	}
	stages, err := store.ListStagesByWorkflow(ctx, *workflowID)
	if err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, nil
	}
	statuses, err := store.ListStatusesByStage(ctx, stages[0].ID)
	if err != nil {
		return nil, err
	}
	for i := range statuses {
		if statuses[i].IsDefault {
			return &statuses[i], nil
		}
	}
	if len(statuses) > 0 {
		return &statuses[0], nil
	}
	return nil, nil
}
