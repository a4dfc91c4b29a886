package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/service"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

type logger struct{}

func (l logger) Infof(format string, args ...interface{})  {}
func (l logger) Warnf(format string, args ...interface{})  {}
func (l logger) Errorf(format string, args ...interface{}) {}

type fixture struct {
	store     storage.Store
	workflows *service.WorkflowService
	projects  *service.ProjectService
	tasks     *service.TaskService
}

func newFixture() *fixture {
	store := storage.NewMockStore()
	return &fixture{
		store:     store,
		workflows: service.NewWorkflowService(store, logger{}),
		projects:  service.NewProjectService(store, logger{}),
		tasks:     service.NewTaskService(store, logger{}),
	}
}

// devWorkflow builds the two-stage catalog used across transition tests:
// Stage "Todo" (order 0) with "Open" (order 0, default) and stage "Done"
// (order 1) with "Closed" (order 0, completion status).
func (f *fixture) devWorkflow(t *testing.T) (workflowID, openID, closedID string) {
	ctx := context.Background()
	wf, err := f.workflows.CreateWorkflow(ctx, "Dev", nil)
	require.NoError(t, err)
	todo, err := f.workflows.CreateStage(ctx, "Todo", 0, wf.ID)
	require.NoError(t, err)
	done, err := f.workflows.CreateStage(ctx, "Done", 1, wf.ID)
	require.NoError(t, err)
	open, err := f.workflows.CreateStatus(ctx, "Open", 0, todo.ID, true, false)
	require.NoError(t, err)
	closed, err := f.workflows.CreateStatus(ctx, "Closed", 0, done.ID, false, true)
	require.NoError(t, err)
	return wf.ID, open.ID, closed.ID
}

func (f *fixture) projectWithWorkflow(t *testing.T, workflowID string) models.Project {
	p, err := f.projects.CreateProject(context.Background(), models.CreateProject{
		ProjectName: "Acme CRM",
		ClientName:  "Acme",
		WorkflowID:  &workflowID,
	})
	require.NoError(t, err)
	return p
}

func TestTaskTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("TaskStartsAtDefaultStatusAndCompletesProject", func(t *testing.T) {
		f := newFixture()
		wfID, openID, closedID := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "Build login"})
		require.NoError(t, err)
		require.NotNil(t, task.StatusID)
		assert.Equal(t, openID, *task.StatusID)
		require.NotNil(t, task.Status)
		assert.Equal(t, "Open", task.Status.Name)

		updated, err := f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &closedID})
		require.NoError(t, err)
		assert.Equal(t, closedID, *updated.StatusID)

		project, err := f.projects.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusCompleted, project.Status)
	})

	t.Run("CannotMoveToEarlierStage", func(t *testing.T) {
		f := newFixture()
		wfID, openID, closedID := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &closedID})
		require.NoError(t, err)

		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &openID})
		require.Error(t, err)
		var ve *service.ValidationError
		assert.ErrorAs(t, err, &ve)
		assert.Contains(t, err.Error(), "cannot move to an earlier stage")
	})

	t.Run("SameStageOrderIsEnforced", func(t *testing.T) {
		f := newFixture()
		wf, err := f.workflows.CreateWorkflow(ctx, "Dev", nil)
		require.NoError(t, err)
		stage, err := f.workflows.CreateStage(ctx, "Doing", 0, wf.ID)
		require.NoError(t, err)
		inProgress, err := f.workflows.CreateStatus(ctx, "InProgress", 0, stage.ID, true, false)
		require.NoError(t, err)
		review, err := f.workflows.CreateStatus(ctx, "Review", 1, stage.ID, false, false)
		require.NoError(t, err)
		p := f.projectWithWorkflow(t, wf.ID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		assert.Equal(t, inProgress.ID, *task.StatusID)

		// Forward within the stage is allowed.
		updated, err := f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &review.ID})
		require.NoError(t, err)
		assert.Equal(t, review.ID, *updated.StatusID)

		// Backward within the stage is not.
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &inProgress.ID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lower order in the same stage")
	})

	t.Run("SameStatusIsAllowed", func(t *testing.T) {
		f := newFixture()
		wfID, openID, _ := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &openID})
		assert.NoError(t, err)
	})

	t.Run("UnknownStatusIsRejected", func(t *testing.T) {
		f := newFixture()
		wfID, _, _ := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)

		bogus := "00000000-0000-0000-0000-000000000000"
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &bogus})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid current or target status ID")
	})

	t.Run("NoWorkflowSkipsValidation", func(t *testing.T) {
		f := newFixture()
		p, err := f.projects.CreateProject(ctx, models.CreateProject{ProjectName: "Loose", ClientName: "c"})
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusNew, p.Status)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		assert.Nil(t, task.StatusID)

		anything := "not-even-a-status"
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &anything})
		assert.NoError(t, err)

		project, err := f.projects.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusNew, project.Status)
	})

	t.Run("UpdateMissingTaskIsNotFound", func(t *testing.T) {
		f := newFixture()
		title := "x"
		_, err := f.tasks.UpdateTask(ctx, "missing", models.TaskUpdate{Title: &title})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestTaskVersionConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	wfID, _, closedID := f.devWorkflow(t)
	p := f.projectWithWorkflow(t, wfID)

	task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.Version)

	// A write carrying the version the caller read succeeds and bumps it.
	updated, err := f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &closedID, Version: &task.Version})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// Replaying the same stale version is rejected.
	_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &closedID, Version: &task.Version})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestCompletionMonitor(t *testing.T) {
	ctx := context.Background()

	t.Run("AllTasksMustBeCompleted", func(t *testing.T) {
		f := newFixture()
		wfID, _, closedID := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		t1, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "a"})
		require.NoError(t, err)
		t2, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "b"})
		require.NoError(t, err)

		_, err = f.tasks.UpdateTask(ctx, t1.ID, models.TaskUpdate{StatusID: &closedID})
		require.NoError(t, err)

		project, err := f.projects.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.NotEqual(t, models.ProjectStatusCompleted, project.Status)

		_, err = f.tasks.UpdateTask(ctx, t2.ID, models.TaskUpdate{StatusID: &closedID})
		require.NoError(t, err)

		project, err = f.projects.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusCompleted, project.Status)
	})

	t.Run("ReEvaluationIsIdempotent", func(t *testing.T) {
		f := newFixture()
		wfID, _, closedID := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "a"})
		require.NoError(t, err)
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{StatusID: &closedID})
		require.NoError(t, err)

		// A second update of an already-completed task re-runs the check
		// without error or further mutation.
		title := "a2"
		_, err = f.tasks.UpdateTask(ctx, task.ID, models.TaskUpdate{Title: &title})
		require.NoError(t, err)

		project, err := f.projects.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectStatusCompleted, project.Status)
	})
}

func TestCreateTaskBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstStatusWhenNoDefaultMarked", func(t *testing.T) {
		f := newFixture()
		wf, err := f.workflows.CreateWorkflow(ctx, "Dev", nil)
		require.NoError(t, err)
		stage, err := f.workflows.CreateStage(ctx, "Todo", 0, wf.ID)
		require.NoError(t, err)
		_, err = f.workflows.CreateStatus(ctx, "Second", 1, stage.ID, false, false)
		require.NoError(t, err)
		first, err := f.workflows.CreateStatus(ctx, "First", 0, stage.ID, false, false)
		require.NoError(t, err)
		p := f.projectWithWorkflow(t, wf.ID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		require.NotNil(t, task.StatusID)
		assert.Equal(t, first.ID, *task.StatusID)
	})

	t.Run("NilStatusWhenWorkflowHasNoStages", func(t *testing.T) {
		f := newFixture()
		wf, err := f.workflows.CreateWorkflow(ctx, "Empty", nil)
		require.NoError(t, err)
		p := f.projectWithWorkflow(t, wf.ID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t"})
		require.NoError(t, err)
		assert.Nil(t, task.StatusID)
	})

	t.Run("ExplicitStatusIsKept", func(t *testing.T) {
		f := newFixture()
		wfID, _, closedID := f.devWorkflow(t)
		p := f.projectWithWorkflow(t, wfID)

		task, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: p.ID, Title: "t", StatusID: &closedID})
		require.NoError(t, err)
		require.NotNil(t, task.StatusID)
		assert.Equal(t, closedID, *task.StatusID)
	})

	t.Run("MissingProjectIsNotFound", func(t *testing.T) {
		f := newFixture()
		_, err := f.tasks.CreateTask(ctx, models.CreateTask{ProjectID: "missing", Title: "t"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
