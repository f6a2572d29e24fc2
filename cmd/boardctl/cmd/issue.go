package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var issueProjectID string

// issueCmd represents the issue command group
var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue inspection commands",
	Long: `Commands for inspecting BugBoard issues.

Examples:
  # List a project's issues
  boardctl issue list --project <project-id>`,
}

// issueListCmd lists a project's issues
var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's issues",
	Long: `List all issues for a project, most recent first.

Displays issue ID, title, priority, status, and assignee.

Example:
  boardctl issue list --project <project-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if issueProjectID == "" {
			return fmt.Errorf("--project is required")
		}

		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		project, err := store.Projects().GetByID(ctx, issueProjectID)
		if err != nil {
			return fmt.Errorf("find project: %w", err)
		}
		if project == nil {
			return fmt.Errorf("project '%s' not found", issueProjectID)
		}

		issues, err := store.Issues().ListByProject(ctx, issueProjectID)
		if err != nil {
			return fmt.Errorf("list issues: %w", err)
		}

		if len(issues) == 0 {
			fmt.Printf("No issues in project '%s'.\n", project.Name)
			return nil
		}

		// Print header
		fmt.Printf("\n%-36s  %-30s  %-8s  %-10s  %s\n",
			"ID", "TITLE", "PRIORITY", "STATUS", "ASSIGNEE")
		fmt.Println(strings.Repeat("-", 105))

		for _, i := range issues {
			assignee := "-"
			if i.Assignee != nil {
				assignee = i.Assignee.Name
			}
			fmt.Printf("%-36s  %-30s  %-8s  %-10s  %s\n",
				i.ID,
				truncate(i.Title, 30),
				i.Priority,
				i.Status,
				assignee,
			)
		}
		fmt.Printf("\nTotal: %d issue(s)\n", len(issues))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.AddCommand(issueListCmd)

	issueListCmd.Flags().StringVar(&issueProjectID, "project", "", "project ID (required)")
	issueListCmd.MarkFlagRequired("project")
}
