package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

type DBInterface interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type PostgresStore struct {
	db DBInterface
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Begin() (storage.Store, error) {
	if db, ok := s.db.(*sqlx.DB); ok {
		tx, err := db.Beginx()
		if err != nil {
			return nil, err
		}
		return &PostgresStore{db: tx}, nil
	}
	return nil, fmt.Errorf("cannot begin transaction on unknown type")
}

func (s *PostgresStore) Commit() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return fmt.Errorf("cannot commit: not a transaction")
}

func (s *PostgresStore) Rollback() error {
	if tx, ok := s.db.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return fmt.Errorf("cannot rollback: not a transaction")
}

func (s *PostgresStore) Close() error {
	if db, ok := s.db.(*sqlx.DB); ok {
		return db.Close()
	}
	return nil // No-op for *sqlx.Tx
}

func (s *PostgresStore) SaveWorkflow(ctx context.Context, w models.Workflow) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO workflows (id, name, organization_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)",
		w.ID, w.Name, w.OrganizationID, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save workflow: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListWorkflows(ctx context.Context) ([]models.Workflow, error) {
	workflows := []models.Workflow{}
	err := s.db.SelectContext(ctx, &workflows, "SELECT * FROM workflows ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return workflows, nil
}

func (s *PostgresStore) GetWorkflow(ctx context.Context, id string) (models.Workflow, error) {
	var w models.Workflow
	err := s.db.GetContext(ctx, &w, "SELECT * FROM workflows WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Workflow{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Workflow{}, err
	}
	return w, nil
}

func (s *PostgresStore) UpdateWorkflow(ctx context.Context, id string, upd models.WorkflowUpdate) (models.Workflow, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.OrganizationID != nil {
		b.set("organization_id", *upd.OrganizationID)
	}
	var w models.Workflow
	query := fmt.Sprintf("UPDATE workflows SET %s WHERE id = %s RETURNING *", b.clause(), b.arg(id))
	err := s.db.GetContext(ctx, &w, query, b.args...)
	if err == sql.ErrNoRows {
		return models.Workflow{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Workflow{}, fmt.Errorf("update workflow %s: %w", id, err)
	}
	return w, nil
}

func (s *PostgresStore) DeleteWorkflow(ctx context.Context, id string) error {
	// Stages and statuses go with it via ON DELETE CASCADE.
	_, err := s.db.ExecContext(ctx, "DELETE FROM workflows WHERE id = $1", id)
	return err
}

func (s *PostgresStore) SaveStage(ctx context.Context, st models.WorkflowStage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workflow_stages (id, workflow_id, name, "order", created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		st.ID, st.WorkflowID, st.Name, st.Order, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save stage: %w", err)
	}
	return nil
}

// ListStagesByWorkflow returns stages sorted ascending by "order"; the
// transition validator and the bootstrap both depend on it.
func (s *PostgresStore) ListStagesByWorkflow(ctx context.Context, workflowID string) ([]models.WorkflowStage, error) {
	stages := []models.WorkflowStage{}
	err := s.db.SelectContext(ctx, &stages,
		`SELECT * FROM workflow_stages WHERE workflow_id = $1 ORDER BY "order" ASC`, workflowID)
	if err != nil {
		return nil, err
	}
	return stages, nil
}

func (s *PostgresStore) GetStage(ctx context.Context, id string) (models.WorkflowStage, error) {
	var st models.WorkflowStage
	err := s.db.GetContext(ctx, &st, "SELECT * FROM workflow_stages WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.WorkflowStage{}, storage.ErrNotFound
	}
	if err != nil {
		return models.WorkflowStage{}, err
	}
	return st, nil
}

func (s *PostgresStore) UpdateStage(ctx context.Context, id string, upd models.StageUpdate) (models.WorkflowStage, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Order != nil {
		b.set(`"order"`, *upd.Order)
	}
	var st models.WorkflowStage
	query := fmt.Sprintf("UPDATE workflow_stages SET %s WHERE id = %s RETURNING *", b.clause(), b.arg(id))
	err := s.db.GetContext(ctx, &st, query, b.args...)
	if err == sql.ErrNoRows {
		return models.WorkflowStage{}, storage.ErrNotFound
	}
	if err != nil {
		return models.WorkflowStage{}, fmt.Errorf("update stage %s: %w", id, err)
	}
	return st, nil
}

func (s *PostgresStore) DeleteStage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM workflow_stages WHERE id = $1", id)
	return err
}

func (s *PostgresStore) SaveStatus(ctx context.Context, st models.StageStatus) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stage_statuses (id, stage_id, name, "order", is_default, is_completion_status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		st.ID, st.StageID, st.Name, st.Order, st.IsDefault, st.IsCompletionStatus, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save status: %w", err)
	}
	return nil
}

// ListStatusesByStage returns statuses sorted ascending by "order".
func (s *PostgresStore) ListStatusesByStage(ctx context.Context, stageID string) ([]models.StageStatus, error) {
	statuses := []models.StageStatus{}
	err := s.db.SelectContext(ctx, &statuses,
		`SELECT * FROM stage_statuses WHERE stage_id = $1 ORDER BY "order" ASC`, stageID)
	if err != nil {
		return nil, err
	}
	return statuses, nil
}

func (s *PostgresStore) GetStatus(ctx context.Context, id string) (models.StageStatus, error) {
	var st models.StageStatus
	err := s.db.GetContext(ctx, &st, "SELECT * FROM stage_statuses WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.StageStatus{}, storage.ErrNotFound
	}
	if err != nil {
		return models.StageStatus{}, err
	}
	return st, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (models.StageStatus, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Order != nil {
		b.set(`"order"`, *upd.Order)
	}
	if upd.IsDefault != nil {
		b.set("is_default", *upd.IsDefault)
	}
	if upd.IsCompletionStatus != nil {
		b.set("is_completion_status", *upd.IsCompletionStatus)
	}
	var st models.StageStatus
	query := fmt.Sprintf("UPDATE stage_statuses SET %s WHERE id = %s RETURNING *", b.clause(), b.arg(id))
	err := s.db.GetContext(ctx, &st, query, b.args...)
	if err == sql.ErrNoRows {
		return models.StageStatus{}, storage.ErrNotFound
	}
	if err != nil {
		return models.StageStatus{}, fmt.Errorf("update status %s: %w", id, err)
	}
	return st, nil
}

func (s *PostgresStore) DeleteStatus(ctx context.Context, id string) error {
	// tasks.status_id references go NULL via ON DELETE SET NULL.
	_, err := s.db.ExecContext(ctx, "DELETE FROM stage_statuses WHERE id = $1", id)
	return err
}

func (s *PostgresStore) SaveTask(ctx context.Context, t models.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, description, status_id, extra_data, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.StatusID, t.ExtraData, t.Version, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// GetTask retrieves a task with its StageStatus resolved.
func (s *PostgresStore) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.db.GetContext(ctx, &t, "SELECT * FROM tasks WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	if err := s.attachStatuses(ctx, []*models.Task{&t}); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *PostgresStore) ListTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT * FROM tasks WHERE project_id = $1 ORDER BY created_at ASC", projectID)
	if err != nil {
		return nil, err
	}
	refs := make([]*models.Task, len(tasks))
	for i := range tasks {
		refs[i] = &tasks[i]
	}
	if err := s.attachStatuses(ctx, refs); err != nil {
		return nil, err
	}
	return tasks, nil
}

// attachStatuses resolves the StageStatus rows for a batch of tasks in one
// query, so consumers get is_completion_status without extra round trips.
func (s *PostgresStore) attachStatuses(ctx context.Context, tasks []*models.Task) error {
	ids := make([]string, 0, len(tasks))
	seen := make(map[string]struct{})
	for _, t := range tasks {
		if t.StatusID == nil {
			continue
		}
		if _, ok := seen[*t.StatusID]; ok {
			continue
		}
		seen[*t.StatusID] = struct{}{}
		ids = append(ids, *t.StatusID)
	}
	if len(ids) == 0 {
		return nil
	}
	statuses := []models.StageStatus{}
	err := s.db.SelectContext(ctx, &statuses,
		"SELECT * FROM stage_statuses WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return fmt.Errorf("attach statuses: %w", err)
	}
	byID := make(map[string]models.StageStatus, len(statuses))
	for _, st := range statuses {
		byID[st.ID] = st
	}
	for _, t := range tasks {
		if t.StatusID == nil {
			continue
		}
		if st, ok := byID[*t.StatusID]; ok {
			stCopy := st
			t.Status = &stCopy
		}
	}
	return nil
}

// UpdateTask applies a partial update, bumping version on every write. When
// upd.Version is set the write is a compare-and-swap: a mismatch on a live
// row surfaces as storage.ErrConflict.
func (s *PostgresStore) UpdateTask(ctx context.Context, id string, upd models.TaskUpdate) (models.Task, error) {
	b := newSetBuilder()
	if upd.Title != nil {
		b.set("title", *upd.Title)
	}
	if upd.Description != nil {
		b.set("description", *upd.Description)
	}
	if upd.StatusID != nil {
		b.set("status_id", *upd.StatusID)
	}
	if upd.ExtraData != nil {
		b.set("extra_data", upd.ExtraData)
	}
	b.raw("version = version + 1")

	where := fmt.Sprintf("id = %s", b.arg(id))
	if upd.Version != nil {
		where += fmt.Sprintf(" AND version = %s", b.arg(*upd.Version))
	}
	var t models.Task
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE %s RETURNING *", b.clause(), where)
	err := s.db.GetContext(ctx, &t, query, b.args...)
	if err == sql.ErrNoRows {
		if upd.Version != nil {
			// Distinguish a stale version from a missing row.
			if _, getErr := s.GetTask(ctx, id); getErr == nil {
				return models.Task{}, storage.ErrConflict
			}
		}
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	if err := s.attachStatuses(ctx, []*models.Task{&t}); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	return err
}

func (s *PostgresStore) SaveProject(ctx context.Context, p models.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, client, status, description, project_type, client_industry, tech_stack,
		                       team_size, duration, keywords, business_specification, report_generated, workflow_id,
		                       created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Client, p.Status, p.Description, p.ProjectType, p.ClientIndustry, p.TechStack,
		p.TeamSize, p.Duration, p.Keywords, p.BusinessSpecification, p.ReportGenerated, p.WorkflowID,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	err := s.db.SelectContext(ctx, &projects, "SELECT * FROM projects ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.db.GetContext(ctx, &p, "SELECT * FROM projects WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func (s *PostgresStore) UpdateProject(ctx context.Context, id string, upd models.ProjectUpdate) (models.Project, error) {
	b := newSetBuilder()
	if upd.Name != nil {
		b.set("name", *upd.Name)
	}
	if upd.Client != nil {
		b.set("client", *upd.Client)
	}
	if upd.Description != nil {
		b.set("description", *upd.Description)
	}
	if upd.ProjectType != nil {
		b.set("project_type", *upd.ProjectType)
	}
	if upd.ClientIndustry != nil {
		b.set("client_industry", *upd.ClientIndustry)
	}
	if upd.TechStack != nil {
		b.set("tech_stack", pq.Array(upd.TechStack))
	}
	if upd.TeamSize != nil {
		b.set("team_size", *upd.TeamSize)
	}
	if upd.Duration != nil {
		b.set("duration", *upd.Duration)
	}
	if upd.Keywords != nil {
		b.set("keywords", *upd.Keywords)
	}
	if upd.BusinessSpecification != nil {
		b.set("business_specification", *upd.BusinessSpecification)
	}
	if upd.ReportGenerated != nil {
		b.set("report_generated", *upd.ReportGenerated)
	}
	if upd.WorkflowID != nil {
		b.set("workflow_id", *upd.WorkflowID)
	}
	var p models.Project
	query := fmt.Sprintf("UPDATE projects SET %s WHERE id = %s RETURNING *", b.clause(), b.arg(id))
	err := s.db.GetContext(ctx, &p, query, b.args...)
	if err == sql.ErrNoRows {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("update project %s: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) UpdateProjectStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = $1", id)
	return err
}
