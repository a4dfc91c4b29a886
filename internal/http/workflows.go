package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
)

type createWorkflowRequest struct {
	Name           string  `json:"name"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

type createStageRequest struct {
	Name       string `json:"name"`
	Order      int    `json:"order"`
	WorkflowID string `json:"workflow_id"`
}

type createStatusRequest struct {
	Name               string `json:"name"`
	Order              int    `json:"order"`
	StageID            string `json:"stage_id"`
	IsDefault          bool   `json:"is_default"`
	IsCompletionStatus bool   `json:"is_completion_status"`
}

func (s *Server) handleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req createWorkflowRequest
	if !s.decode(w, r, &req) {
		return
	}
	wf, err := s.workflows.CreateWorkflow(r.Context(), req.Name, req.OrganizationID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, wf)
}

func (s *Server) handleListWorkflows(w http.ResponseWriter, r *http.Request) {
	workflows, err := s.workflows.ListWorkflows(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, workflows)
}

func (s *Server) handleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := s.workflows.GetWorkflow(r.Context(), chi.URLParam(r, "workflowID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleUpdateWorkflow(w http.ResponseWriter, r *http.Request) {
	var upd models.WorkflowUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	wf, err := s.workflows.UpdateWorkflow(r.Context(), chi.URLParam(r, "workflowID"), upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wf)
}

func (s *Server) handleDeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "workflowID")
	if err := s.workflows.DeleteWorkflow(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: fmt.Sprintf("Workflow with ID %q deleted", id)})
}

func (s *Server) handleCreateStage(w http.ResponseWriter, r *http.Request) {
	var req createStageRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.WorkflowID == "" {
		req.WorkflowID = chi.URLParam(r, "workflowID")
	}
	st, err := s.workflows.CreateStage(r.Context(), req.Name, req.Order, req.WorkflowID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := s.workflows.ListStagesByWorkflow(r.Context(), chi.URLParam(r, "workflowID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stages)
}

func (s *Server) handleGetStage(w http.ResponseWriter, r *http.Request) {
	st, err := s.workflows.GetStage(r.Context(), chi.URLParam(r, "stageID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateStage(w http.ResponseWriter, r *http.Request) {
	var upd models.StageUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	st, err := s.workflows.UpdateStage(r.Context(), chi.URLParam(r, "stageID"), upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "stageID")
	if err := s.workflows.DeleteStage(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: fmt.Sprintf("Workflow stage with ID %q deleted", id)})
}

func (s *Server) handleCreateStatus(w http.ResponseWriter, r *http.Request) {
	var req createStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.StageID == "" {
		req.StageID = chi.URLParam(r, "stageID")
	}
	st, err := s.workflows.CreateStatus(r.Context(), req.Name, req.Order, req.StageID, req.IsDefault, req.IsCompletionStatus)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, st)
}

func (s *Server) handleListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.workflows.ListStatusesByStage(r.Context(), chi.URLParam(r, "stageID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.workflows.GetStatus(r.Context(), chi.URLParam(r, "statusID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var upd models.StatusUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	st, err := s.workflows.UpdateStatus(r.Context(), chi.URLParam(r, "statusID"), upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "statusID")
	if err := s.workflows.DeleteStatus(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: fmt.Sprintf("Stage status with ID %q deleted", id)})
}
