package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnopaluwa/pm-tool-backend/pkg/models"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in models.CreateTask
	if !s.decode(w, r, &in) {
		return
	}
	task, err := s.tasks.CreateTask(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasksByProject(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListTasksByProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var upd models.TaskUpdate
	if !s.decode(w, r, &upd) {
		return
	}
	task, err := s.tasks.UpdateTask(r.Context(), chi.URLParam(r, "taskID"), upd)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "taskID")
	if err := s.tasks.DeleteTask(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: fmt.Sprintf("Task with ID %q deleted", id)})
}
