package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
)

type updateProjectStatusRequest struct {
	Status string `json:"status"`
}

type updateReportGeneratedRequest struct {
	ReportGenerated bool `json:"report_generated"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.CreateProject
	if !s.decode(w, r, &in) {
		return
	}
	project, err := s.projects.CreateProject(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var upd models.ProjectUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	project, err := s.projects.UpdateProject(r.Context(), chi.URLParam(r, "projectID"), upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	var req updateProjectStatusRequest
	if !s.decode(w, r, &req) {
		return
	}
	project, err := s.projects.UpdateProjectStatus(r.Context(), chi.URLParam(r, "projectID"), req.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateReportGenerated(w http.ResponseWriter, r *http.Request) {
	var req updateReportGeneratedRequest
	if !s.decode(w, r, &req) {
		return
	}
	project, err := s.projects.UpdateReportGenerated(r.Context(), chi.URLParam(r, "projectID"), req.ReportGenerated)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if err := s.projects.DeleteProject(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: fmt.Sprintf("Project with ID %q deleted", id)})
}
