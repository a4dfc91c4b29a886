package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
)

// mockStore implements Store with in-memory slices. It mirrors the Postgres
// store's semantics: ordered stage/status listings, cascade on workflow and
// stage deletion, status_id nulling on status deletion, and the version
// compare-and-swap on task updates. Begin returns the same instance; the
// mock has no real transaction isolation.
type mockStore struct {
	mu        sync.Mutex
	workflows []models.Workflow
	stages    []models.WorkflowStage
	statuses  []models.StageStatus
	tasks     []models.Task
	projects  []models.Project
}

// NewMockStore returns an empty in-memory Store for tests.
func NewMockStore() Store {
	return &mockStore{}
}

func (m *mockStore) Begin() (Store, error) { return m, nil }
func (m *mockStore) Commit() error         { return nil }
func (m *mockStore) Rollback() error       { return nil }
func (m *mockStore) Close() error          { return nil }

func (m *mockStore) SaveWorkflow(_ context.Context, w models.Workflow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workflows = append(m.workflows, w)
	return nil
}

func (m *mockStore) ListWorkflows(_ context.Context) ([]models.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Workflow, len(m.workflows))
	copy(out, m.workflows)
	return out, nil
}

func (m *mockStore) GetWorkflow(_ context.Context, id string) (models.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workflows {
		if w.ID == id {
			return w, nil
		}
	}
	return models.Workflow{}, ErrNotFound
}

func (m *mockStore) UpdateWorkflow(_ context.Context, id string, upd models.WorkflowUpdate) (models.Workflow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.workflows {
		if m.workflows[i].ID != id {
			continue
		}
		if upd.Name != nil {
			m.workflows[i].Name = *upd.Name
		}
		if upd.OrganizationID != nil {
			m.workflows[i].OrganizationID = upd.OrganizationID
		}
		m.workflows[i].UpdatedAt = time.Now()
		return m.workflows[i], nil
	}
	return models.Workflow{}, ErrNotFound
}

func (m *mockStore) DeleteWorkflow(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.workflows[:0]
	for _, w := range m.workflows {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	m.workflows = kept
	// Cascade to stages (and through them to statuses).
	var stageIDs []string
	keptStages := m.stages[:0]
	for _, st := range m.stages {
		if st.WorkflowID == id {
			stageIDs = append(stageIDs, st.ID)
			continue
		}
		keptStages = append(keptStages, st)
	}
	m.stages = keptStages
	for _, sid := range stageIDs {
		m.deleteStatusesOfStageLocked(sid)
	}
	return nil
}

func (m *mockStore) SaveStage(_ context.Context, st models.WorkflowStage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, st)
	return nil
}

func (m *mockStore) ListStagesByWorkflow(_ context.Context, workflowID string) ([]models.WorkflowStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WorkflowStage
	for _, st := range m.stages {
		if st.WorkflowID == workflowID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *mockStore) GetStage(_ context.Context, id string) (models.WorkflowStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.stages {
		if st.ID == id {
			return st, nil
		}
	}
	return models.WorkflowStage{}, ErrNotFound
}

func (m *mockStore) UpdateStage(_ context.Context, id string, upd models.StageUpdate) (models.WorkflowStage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.stages {
		if m.stages[i].ID != id {
			continue
		}
		if upd.Name != nil {
			m.stages[i].Name = *upd.Name
		}
		if upd.Order != nil {
			m.stages[i].Order = *upd.Order
		}
		m.stages[i].UpdatedAt = time.Now()
		return m.stages[i], nil
	}
	return models.WorkflowStage{}, ErrNotFound
}

func (m *mockStore) DeleteStage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.stages[:0]
	for _, st := range m.stages {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	m.stages = kept
	m.deleteStatusesOfStageLocked(id)
	return nil
}

// deleteStatusesOfStageLocked removes a stage's statuses and nulls dangling
// task references, matching ON DELETE CASCADE / SET NULL in the schema.
func (m *mockStore) deleteStatusesOfStageLocked(stageID string) {
	kept := m.statuses[:0]
	for _, st := range m.statuses {
		if st.StageID == stageID {
			for i := range m.tasks {
				if m.tasks[i].StatusID != nil && *m.tasks[i].StatusID == st.ID {
					m.tasks[i].StatusID = nil
				}
			}
			continue
		}
		kept = append(kept, st)
	}
	m.statuses = kept
}

func (m *mockStore) SaveStatus(_ context.Context, st models.StageStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, st)
	return nil
}

func (m *mockStore) ListStatusesByStage(_ context.Context, stageID string) ([]models.StageStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.StageStatus
	for _, st := range m.statuses {
		if st.StageID == stageID {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *mockStore) GetStatus(_ context.Context, id string) (models.StageStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.statuses {
		if st.ID == id {
			return st, nil
		}
	}
	return models.StageStatus{}, ErrNotFound
}

func (m *mockStore) UpdateStatus(_ context.Context, id string, upd models.StatusUpdate) (models.StageStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.statuses {
		if m.statuses[i].ID != id {
			continue
		}
		if upd.Name != nil {
			m.statuses[i].Name = *upd.Name
		}
		if upd.Order != nil {
			m.statuses[i].Order = *upd.Order
		}
		if upd.IsDefault != nil {
			m.statuses[i].IsDefault = *upd.IsDefault
		}
		if upd.IsCompletionStatus != nil {
			m.statuses[i].IsCompletionStatus = *upd.IsCompletionStatus
		}
		m.statuses[i].UpdatedAt = time.Now()
		return m.statuses[i], nil
	}
	return models.StageStatus{}, ErrNotFound
}

func (m *mockStore) DeleteStatus(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.statuses[:0]
	for _, st := range m.statuses {
		if st.ID == id {
			for i := range m.tasks {
				if m.tasks[i].StatusID != nil && *m.tasks[i].StatusID == id {
					m.tasks[i].StatusID = nil
				}
			}
			continue
		}
		kept = append(kept, st)
	}
	m.statuses = kept
	return nil
}

func (m *mockStore) SaveTask(_ context.Context, t models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.Status = nil
	m.tasks = append(m.tasks, t)
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return m.resolveStatusLocked(t), nil
		}
	}
	return models.Task{}, ErrNotFound
}

func (m *mockStore) ListTasksByProject(_ context.Context, projectID string) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.ProjectID == projectID {
			out = append(out, m.resolveStatusLocked(t))
		}
	}
	return out, nil
}

func (m *mockStore) resolveStatusLocked(t models.Task) models.Task {
	if t.StatusID == nil {
		t.Status = nil
		return t
	}
	for _, st := range m.statuses {
		if st.ID == *t.StatusID {
			s := st
			t.Status = &s
			return t
		}
	}
	t.Status = nil
	return t
}

func (m *mockStore) UpdateTask(_ context.Context, id string, upd models.TaskUpdate) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID != id {
			continue
		}
		if upd.Version != nil && m.tasks[i].Version != *upd.Version {
			return models.Task{}, ErrConflict
		}
		if upd.Title != nil {
			m.tasks[i].Title = *upd.Title
		}
		if upd.Description != nil {
			m.tasks[i].Description = upd.Description
		}
		if upd.StatusID != nil {
			m.tasks[i].StatusID = upd.StatusID
		}
		if upd.ExtraData != nil {
			m.tasks[i].ExtraData = upd.ExtraData
		}
		m.tasks[i].Version++
		m.tasks[i].UpdatedAt = time.Now()
		return m.resolveStatusLocked(m.tasks[i]), nil
	}
	return models.Task{}, ErrNotFound
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	return nil
}

func (m *mockStore) SaveProject(_ context.Context, p models.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, p)
	return nil
}

func (m *mockStore) ListProjects(_ context.Context) ([]models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Project, len(m.projects))
	copy(out, m.projects)
	return out, nil
}

func (m *mockStore) GetProject(_ context.Context, id string) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, ErrNotFound
}

func (m *mockStore) UpdateProject(_ context.Context, id string, upd models.ProjectUpdate) (models.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID != id {
			continue
		}
		p := &m.projects[i]
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Client != nil {
			p.Client = *upd.Client
		}
		if upd.Description != nil {
			p.Description = *upd.Description
		}
		if upd.ProjectType != nil {
			p.ProjectType = *upd.ProjectType
		}
		if upd.ClientIndustry != nil {
			p.ClientIndustry = *upd.ClientIndustry
		}
		if upd.TechStack != nil {
			p.TechStack = upd.TechStack
		}
		if upd.TeamSize != nil {
			p.TeamSize = *upd.TeamSize
		}
		if upd.Duration != nil {
			p.Duration = *upd.Duration
		}
		if upd.Keywords != nil {
			p.Keywords = *upd.Keywords
		}
		if upd.BusinessSpecification != nil {
			p.BusinessSpecification = *upd.BusinessSpecification
		}
		if upd.ReportGenerated != nil {
			p.ReportGenerated = *upd.ReportGenerated
		}
		if upd.WorkflowID != nil {
			p.WorkflowID = upd.WorkflowID
		}
		p.UpdatedAt = time.Now()
		return *p, nil
	}
	return models.Project{}, ErrNotFound
}

func (m *mockStore) UpdateProjectStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects[i].Status = status
			m.projects[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) DeleteProject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.projects[:0]
	for _, p := range m.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.projects = kept
	keptTasks := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ProjectID != id {
			keptTasks = append(keptTasks, t)
		}
	}
	m.tasks = keptTasks
	return nil
}
