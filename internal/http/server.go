package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/johnopaluwa/pm-tool-backend/internal/config"
	"github.com/johnopaluwa/pm-tool-backend/internal/log"
	"github.com/johnopaluwa/pm-tool-backend/pkg/service"
	"github.com/johnopaluwa/pm-tool-backend/pkg/storage"
)

// Server bundles the services behind the REST surface.
type Server struct {
	workflows *service.WorkflowService
	tasks     *service.TaskService
	projects  *service.ProjectService
	logger    *logrus.Logger
}

func NewServer(store storage.Store) *Server {
	logger := log.GetLogger()
	return &Server{
		workflows: service.NewWorkflowService(store, logger),
		tasks:     service.NewTaskService(store, logger),
		projects:  service.NewProjectService(store, logger),
		logger:    logger,
	}
}

// Router assembles the REST routes. Every request runs under a timeout so a
// hung persistence call cannot hang the request forever.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", s.handleHealth)

	r.Route("/workflows", func(r chi.Router) {
		r.Post("/", s.handleCreateWorkflow)
		r.Get("/", s.handleListWorkflows)
		r.Route("/{workflowID}", func(r chi.Router) {
			r.Get("/", s.handleGetWorkflow)
			r.Put("/", s.handleUpdateWorkflow)
			r.Delete("/", s.handleDeleteWorkflow)
			r.Route("/stages", func(r chi.Router) {
				r.Post("/", s.handleCreateStage)
				r.Get("/", s.handleListStages)
				r.Route("/{stageID}", func(r chi.Router) {
					r.Get("/", s.handleGetStage)
					r.Put("/", s.handleUpdateStage)
					r.Delete("/", s.handleDeleteStage)
					r.Route("/statuses", func(r chi.Router) {
						r.Post("/", s.handleCreateStatus)
						r.Get("/", s.handleListStatuses)
						r.Route("/{statusID}", func(r chi.Router) {
							r.Get("/", s.handleGetStatus)
							r.Put("/", s.handleUpdateStatus)
							r.Delete("/", s.handleDeleteStatus)
						})
					})
				})
			})
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.handleCreateTask)
		r.Get("/project/{projectID}", s.handleListTasksByProject)
		r.Get("/{taskID}", s.handleGetTask)
		r.Put("/{taskID}", s.handleUpdateTask)
		r.Delete("/{taskID}", s.handleDeleteTask)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Post("/", s.handleCreateProject)
		r.Get("/", s.handleListProjects)
		r.Get("/{projectID}", s.handleGetProject)
		r.Put("/{projectID}", s.handleUpdateProject)
		r.Delete("/{projectID}", s.handleDeleteProject)
		r.Put("/{projectID}/status", s.handleUpdateProjectStatus)
		r.Put("/{projectID}/report-generated", s.handleUpdateReportGenerated)
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StartServer runs the HTTP server on the configured port.
func StartServer(cfg config.Config, store storage.Store) error {
	srv := NewServer(store)
	log.GetLogger().Infof("Starting pm-tool server on :%s", cfg.HTTPPort)
	return http.ListenAndServe(":"+cfg.HTTPPort, srv.Router(cfg.RequestTimeout))
}
