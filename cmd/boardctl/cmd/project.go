package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/bugboard/internal/models"
)

var (
	projectName    string
	projectDesc    string
	projectAdmin   string
	projectID      string
	projectUserIDs []string
)

// projectCmd represents the project command group
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Project management commands",
	Long: `Commands for managing BugBoard projects.

These commands operate directly on the database file.

Examples:
  # List all projects
  boardctl project list

  # Create a project owned by an admin
  boardctl project create --name my-project --admin admin@example.com

  # Assign users to a project
  boardctl project assign --id <project-id> --user <user-id> --user <user-id>

  # Mark a project completed
  boardctl project complete --id <project-id>`,
}

// projectListCmd lists all projects
var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects",
	Long: `List all projects in the database.

Displays project ID, name, status, member count, and creation date.

Example:
  boardctl project list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		projects, err := store.Projects().List(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		// Print header
		fmt.Printf("\n%-36s  %-20s  %-12s  %-8s  %s\n",
			"ID", "NAME", "STATUS", "MEMBERS", "CREATED")
		fmt.Println(strings.Repeat("-", 95))

		for _, p := range projects {
			memberIDs, err := store.Projects().GetAssignedUserIDs(ctx, p.ID)
			if err != nil {
				PrintVerbose("could not fetch members for %s: %v", p.Name, err)
			}
			fmt.Printf("%-36s  %-20s  %-12s  %-8d  %s\n",
				p.ID,
				truncate(p.Name, 20),
				p.Status,
				len(memberIDs),
				p.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		fmt.Printf("\nTotal: %d project(s)\n", len(projects))

		return nil
	},
}

// projectCreateCmd creates a new project
var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new project",
	Long: `Create a new project owned by an existing admin user.

The --admin flag takes the email of the admin who will own the project.

Example:
  boardctl project create --name my-project --admin admin@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectName == "" {
			return fmt.Errorf("--name is required")
		}
		if projectAdmin == "" {
			return fmt.Errorf("--admin is required")
		}

		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		admin, err := store.Users().GetByEmail(ctx, projectAdmin)
		if err != nil {
			return fmt.Errorf("find admin: %w", err)
		}
		if admin == nil {
			return fmt.Errorf("user '%s' not found", projectAdmin)
		}
		if !admin.IsAdmin() {
			return fmt.Errorf("user '%s' is not an admin", projectAdmin)
		}

		project := models.NewProject(strings.TrimSpace(projectName), projectDesc, admin.ID)
		project.ID = uuid.New().String()

		if err := store.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("create project: %w", err)
		}

		fmt.Printf("\nProject created successfully:\n")
		fmt.Printf("  ID:     %s\n", project.ID)
		fmt.Printf("  Name:   %s\n", project.Name)
		fmt.Printf("  Owner:  %s\n", admin.Email)
		fmt.Printf("  Status: %s\n", project.Status)

		return nil
	},
}

// projectAssignCmd adds users to a project
var projectAssignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign users to a project",
	Long: `Assign one or more users to a project.

Users already assigned are left in place; assignment never removes
anyone.

Example:
  boardctl project assign --id <project-id> --user <user-id> --user <user-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectID == "" {
			return fmt.Errorf("--id is required")
		}
		if len(projectUserIDs) == 0 {
			return fmt.Errorf("at least one --user is required")
		}

		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		project, err := store.Projects().GetByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("find project: %w", err)
		}
		if project == nil {
			return fmt.Errorf("project '%s' not found", projectID)
		}

		for _, id := range projectUserIDs {
			user, err := store.Users().GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("find user: %w", err)
			}
			if user == nil {
				return fmt.Errorf("user '%s' not found", id)
			}
		}

		if err := store.Projects().AssignUsers(ctx, projectID, projectUserIDs); err != nil {
			return fmt.Errorf("assign users: %w", err)
		}

		fmt.Printf("Assigned %d user(s) to project '%s'.\n", len(projectUserIDs), project.Name)
		return nil
	},
}

// projectCompleteCmd marks a project completed
var projectCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark a project completed",
	Long: `Mark a project as completed. Completed projects stay completed;
there is no way back to in-progress.

Example:
  boardctl project complete --id <project-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if projectID == "" {
			return fmt.Errorf("--id is required")
		}

		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		project, err := store.Projects().GetByID(ctx, projectID)
		if err != nil {
			return fmt.Errorf("find project: %w", err)
		}
		if project == nil {
			return fmt.Errorf("project '%s' not found", projectID)
		}

		if err := store.Projects().SetStatus(ctx, projectID, models.ProjectCompleted, time.Now()); err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}

		fmt.Printf("Project '%s' marked as completed.\n", project.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectAssignCmd)
	projectCmd.AddCommand(projectCompleteCmd)

	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "project name (required)")
	projectCreateCmd.Flags().StringVar(&projectDesc, "description", "", "project description")
	projectCreateCmd.Flags().StringVar(&projectAdmin, "admin", "", "email of the owning admin (required)")
	projectCreateCmd.MarkFlagRequired("name")
	projectCreateCmd.MarkFlagRequired("admin")

	projectAssignCmd.Flags().StringVar(&projectID, "id", "", "project ID (required)")
	projectAssignCmd.Flags().StringArrayVar(&projectUserIDs, "user", nil, "user ID to assign (repeatable)")
	projectAssignCmd.MarkFlagRequired("id")

	projectCompleteCmd.Flags().StringVar(&projectID, "id", "", "project ID (required)")
	projectCompleteCmd.MarkFlagRequired("id")
}
