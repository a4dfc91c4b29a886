package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_http "github.com/johnopaluwa/pm-tool-backend/internal/http"
	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

func newServer(t *testing.T) *httptest.Server {
	srv := internal_http.NewServer(storage.NewMockStore())
	ts := httptest.NewServer(srv.Router(30 * time.Second))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestWorkflowRoutes(t *testing.T) {
	ts := newServer(t)

	var wf models.Workflow
	resp := doJSON(t, http.MethodPost, ts.URL+"/workflows", map[string]interface{}{"name": "Dev"}, &wf)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Dev", wf.Name)
	assert.NotEmpty(t, wf.ID)

	// Name is required.
	resp = doJSON(t, http.MethodPost, ts.URL+"/workflows", map[string]interface{}{}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var workflows []models.Workflow
	resp = doJSON(t, http.MethodGet, ts.URL+"/workflows", nil, &workflows)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, workflows, 1)

	resp = doJSON(t, http.MethodGet, ts.URL+"/workflows/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Stages are created under the workflow and listed in order.
	var s2, s1 models.WorkflowStage
	resp = doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages",
		map[string]interface{}{"name": "Done", "order": 1}, &s2)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, wf.ID, s2.WorkflowID)
	resp = doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages",
		map[string]interface{}{"name": "Todo", "order": 0}, &s1)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var stages []models.WorkflowStage
	resp = doJSON(t, http.MethodGet, ts.URL+"/workflows/"+wf.ID+"/stages", nil, &stages)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, stages, 2)
	assert.Equal(t, "Todo", stages[0].Name)
	assert.Equal(t, "Done", stages[1].Name)

	var status models.StageStatus
	resp = doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages/"+s1.ID+"/statuses",
		map[string]interface{}{"name": "Open", "order": 0, "is_default": true}, &status)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, s1.ID, status.StageID)
	assert.True(t, status.IsDefault)

	var deleted struct {
		Success bool `json:"success"`
	}
	resp = doJSON(t, http.MethodDelete, ts.URL+"/workflows/"+wf.ID, nil, &deleted)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, deleted.Success)
}

func TestTaskLifecycleOverREST(t *testing.T) {
	ts := newServer(t)

	// Catalog: Todo(0){Open(0,default)} Done(1){Closed(0,completion)}.
	var wf models.Workflow
	doJSON(t, http.MethodPost, ts.URL+"/workflows", map[string]interface{}{"name": "Dev"}, &wf)
	var todo, done models.WorkflowStage
	doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages",
		map[string]interface{}{"name": "Todo", "order": 0}, &todo)
	doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages",
		map[string]interface{}{"name": "Done", "order": 1}, &done)
	var open, closed models.StageStatus
	doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages/"+todo.ID+"/statuses",
		map[string]interface{}{"name": "Open", "order": 0, "is_default": true}, &open)
	doJSON(t, http.MethodPost, ts.URL+"/workflows/"+wf.ID+"/stages/"+done.ID+"/statuses",
		map[string]interface{}{"name": "Closed", "order": 0, "is_completion_status": true}, &closed)

	var project models.Project
	resp := doJSON(t, http.MethodPost, ts.URL+"/projects",
		map[string]interface{}{"project_name": "Acme CRM", "client_name": "Acme", "workflow_id": wf.ID}, &project)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Open", project.Status)

	var task models.Task
	resp = doJSON(t, http.MethodPost, ts.URL+"/tasks",
		map[string]interface{}{"project_id": project.ID, "title": "Build login"}, &task)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, task.StatusID)
	assert.Equal(t, open.ID, *task.StatusID)
	require.NotNil(t, task.Status)
	assert.Equal(t, "Open", task.Status.Name)

	// Forward transition succeeds and completes the project.
	var updated models.Task
	resp = doJSON(t, http.MethodPut, ts.URL+"/tasks/"+task.ID,
		map[string]interface{}{"status_id": closed.ID}, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, closed.ID, *updated.StatusID)

	doJSON(t, http.MethodGet, ts.URL+"/projects/"+project.ID, nil, &project)
	assert.Equal(t, "completed", project.Status)

	// Backward transition is a 400.
	var errBody struct {
		Error string `json:"error"`
	}
	resp = doJSON(t, http.MethodPut, ts.URL+"/tasks/"+task.ID,
		map[string]interface{}{"status_id": open.ID}, &errBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, errBody.Error, "earlier stage")

	// Stale version is a 409.
	resp = doJSON(t, http.MethodPut, ts.URL+"/tasks/"+task.ID,
		map[string]interface{}{"status_id": closed.ID, "version": 1}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var tasks []models.Task
	resp = doJSON(t, http.MethodGet, ts.URL+"/tasks/project/"+project.ID, nil, &tasks)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Status)
	assert.True(t, tasks[0].Status.IsCompletionStatus)

	resp = doJSON(t, http.MethodGet, ts.URL+"/tasks/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var deleted struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	resp = doJSON(t, http.MethodDelete, ts.URL+"/tasks/"+task.ID, nil, &deleted)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, deleted.Success)
	assert.Equal(t, fmt.Sprintf("Task with ID %q deleted", task.ID), deleted.Message)
}

func TestProjectRoutes(t *testing.T) {
	ts := newServer(t)

	var project models.Project
	resp := doJSON(t, http.MethodPost, ts.URL+"/projects",
		map[string]interface{}{"project_name": "Standalone", "client_name": "Acme"}, &project)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "new", project.Status)

	// Without a workflow the status enum is closed.
	resp = doJSON(t, http.MethodPut, ts.URL+"/projects/"+project.ID+"/status",
		map[string]interface{}{"status": "sprint-3"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, ts.URL+"/projects/"+project.ID+"/status",
		map[string]interface{}{"status": "predicting"}, &project)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "predicting", project.Status)

	resp = doJSON(t, http.MethodPut, ts.URL+"/projects/"+project.ID+"/report-generated",
		map[string]interface{}{"report_generated": true}, &project)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, project.ReportGenerated)

	var projects []models.Project
	resp = doJSON(t, http.MethodGet, ts.URL+"/projects", nil, &projects)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, projects, 1)

	resp = doJSON(t, http.MethodGet, ts.URL+"/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
