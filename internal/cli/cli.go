package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnopaluwa/pm-tool-backend/internal/config"
	internal_http "github.com/johnopaluwa/pm-tool-backend/internal/http"
	"github.com/johnopaluwa/pm-tool-backend/internal/log"
	internal_storage "github.com/johnopaluwa/pm-tool-backend/internal/storage"
	"github.com/johnopaluwa/pm-tool-backend/pkg/service"
)

func SetupCLI(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().String("db", "", "Database connection string (falls back to DATABASE_URL / DB_* env vars)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store := initStore(cmd, cfg)
			defer store.Close()
			if err := internal_http.StartServer(cfg, store); err != nil {
				log.GetLogger().Errorf("Server failed: %v", err)
				os.Exit(1)
			}
		},
	}

	workflowCmd := &cobra.Command{
		Use:   "workflow",
		Short: "Workflow catalog commands",
	}

	workflowCreateCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new workflow",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewWorkflowService(store, log.GetLogger())
			wf, err := svc.CreateWorkflow(context.Background(), args[0], nil)
			if err != nil {
				log.GetLogger().Errorf("Failed to create workflow: %v", err)
				fmt.Fprintf(os.Stderr, "Error: failed to create workflow: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stdout, "Created workflow '%s' with ID %s\n", wf.Name, wf.ID)
		},
	}

	workflowListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all workflows",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewWorkflowService(store, log.GetLogger())
			workflows, err := svc.ListWorkflows(context.Background())
			if err != nil {
				log.GetLogger().Errorf("Failed to list workflows: %v", err)
				fmt.Fprintf(os.Stderr, "Error: failed to list workflows: %v\n", err)
				os.Exit(1)
			}
			if len(workflows) == 0 {
				fmt.Fprintf(os.Stdout, "No workflows found.\n")
				return
			}
			fmt.Fprintf(os.Stdout, "Workflows:\n")
			for _, wf := range workflows {
				fmt.Fprintf(os.Stdout, "- ID: %s, Name: %s, Created: %s\n",
					wf.ID, wf.Name, wf.CreatedAt.Format(time.RFC3339))
			}
		},
	}
	workflowCmd.AddCommand(workflowCreateCmd, workflowListCmd)

	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Project commands",
	}

	projectListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			store := initStore(cmd, cfg)
			defer store.Close()
			svc := service.NewProjectService(store, log.GetLogger())
			projects, err := svc.ListProjects(context.Background())
			if err != nil {
				log.GetLogger().Errorf("Failed to list projects: %v", err)
				fmt.Fprintf(os.Stderr, "Error: failed to list projects: %v\n", err)
				os.Exit(1)
			}
			if len(projects) == 0 {
				fmt.Fprintf(os.Stdout, "No projects found.\n")
				return
			}
			fmt.Fprintf(os.Stdout, "Projects:\n")
			for _, p := range projects {
				fmt.Fprintf(os.Stdout, "- ID: %s, Name: %s, Status: %s, Client: %s\n",
					p.ID, p.Name, p.Status, p.Client)
			}
		},
	}
	projectCmd.AddCommand(projectListCmd)

	rootCmd.AddCommand(serveCmd, workflowCmd, projectCmd)
}

func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.GetLogger().Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	return cfg
}

func initStore(cmd *cobra.Command, cfg config.Config) *internal_storage.PostgresStore {
	connStr, err := cmd.Flags().GetString("db")
	if err != nil {
		log.GetLogger().Errorf("Error retrieving db flag: %v", err)
		os.Exit(1)
	}
	if connStr == "" {
		connStr, err = cfg.DBConnStr()
		if err != nil {
			log.GetLogger().Errorf("No database configured: %v", err)
			os.Exit(1)
		}
	}
	store, err := internal_storage.InitStore(connStr)
	if err != nil {
		log.GetLogger().Errorf("Failed to initialize store: %v", err)
		os.Exit(1)
	}
	return store
}
