// Package cmd contains the CLI commands for boardctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/bugboard/internal/storage"
)

var (
	// Used for flags
	verbose bool
	output  string
	dbPath  string
)

// defaultDBPath can be overridden via BUGBOARD_DB_PATH env var
var defaultDBPath = "data/bugboard.db"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "BugBoard - Issue tracker administration",
	Long: `boardctl manages a BugBoard database directly, outside of the
web interface and REST API.

Examples:
  # List all users
  boardctl user list

  # Create an admin user
  boardctl user create --name admin --email admin@example.com --role admin

  # List all projects
  boardctl project list

  # List a project's issues
  boardctl issue list --project <project-id>`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help by default
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if envPath := os.Getenv("BUGBOARD_DB_PATH"); envPath != "" {
		defaultDBPath = envPath
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "path to SQLite database file")
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// openDatabase opens the SQLite database at the configured path.
func openDatabase() (*storage.SQLiteStorage, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", dbPath)
	}

	store := storage.NewSQLiteStorage(dbPath)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return store, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-2] + ".."
}
