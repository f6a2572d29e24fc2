package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/good-yellow-bee/bugboard/internal/api/auth"
	"github.com/good-yellow-bee/bugboard/internal/models"
)

var (
	userName  string
	userEmail string
	userRole  string
)

// userCmd represents the user command group
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User management commands",
	Long: `Commands for managing BugBoard users.

These commands operate directly on the database file and are intended
for system administrators to manage users outside of the web interface.

Examples:
  # List all users
  boardctl user list

  # Create an admin user
  boardctl user create --name admin --email admin@example.com --role admin`,
}

// userListCmd lists all users
var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Long: `List all users in the database.

Displays name, email, role, and creation date for each user.
Passwords are never displayed.

Example:
  boardctl user list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		userList, err := store.Users().List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		if len(userList) == 0 {
			fmt.Println("No users found.")
			return nil
		}

		// Print header
		fmt.Printf("\n%-36s  %-20s  %-30s  %-10s  %s\n",
			"ID", "NAME", "EMAIL", "ROLE", "CREATED")
		fmt.Println(strings.Repeat("-", 120))

		for _, u := range userList {
			fmt.Printf("%-36s  %-20s  %-30s  %-10s  %s\n",
				u.ID,
				truncate(u.Name, 20),
				truncate(u.Email, 30),
				u.Role,
				u.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		fmt.Printf("\nTotal: %d user(s)\n", len(userList))

		return nil
	},
}

// userCreateCmd creates a new user
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user",
	Long: `Create a new user in the database.

The password will be prompted interactively for security reasons
(to avoid exposing it in shell history).

Password requirements:
  - Minimum 8 characters
  - At least 1 letter
  - At least 1 digit

Available roles:
  - admin: creates projects, assigns users, closes projects
  - developer: raises and resolves issues on assigned projects
  - tester: raises and resolves issues on assigned projects

Example:
  boardctl user create --name john --email john@example.com --role developer`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userName == "" {
			return fmt.Errorf("--name is required")
		}
		if userEmail == "" {
			return fmt.Errorf("--email is required")
		}

		role, ok := models.ParseRole(userRole)
		if !ok {
			return fmt.Errorf("invalid role %q: must be admin, developer, or tester", userRole)
		}

		// Prompt for password securely
		password, err := promptPassword("Enter password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("invalid password: %w", err)
		}

		confirmPassword, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password confirmation: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		store, err := openDatabase()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		existing, err := store.Users().GetByEmail(ctx, userEmail)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("email '%s' already exists", userEmail)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := models.NewUser(strings.TrimSpace(userName), strings.ToLower(strings.TrimSpace(userEmail)), role)
		user.ID = uuid.New().String()
		user.PasswordHash = string(hash)

		if err := store.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Printf("\nUser created successfully:\n")
		fmt.Printf("  ID:    %s\n", user.ID)
		fmt.Printf("  Name:  %s\n", user.Name)
		fmt.Printf("  Email: %s\n", user.Email)
		fmt.Printf("  Role:  %s\n", user.Role)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)

	userCreateCmd.Flags().StringVar(&userName, "name", "", "display name for the new user (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email for the new user (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", "developer", "role: admin, developer, or tester")
	userCreateCmd.MarkFlagRequired("name")
	userCreateCmd.MarkFlagRequired("email")
}

// promptPassword prompts for a password without echoing to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := syscall.Stdin
	if term.IsTerminal(fd) {
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	// Fallback for non-terminal input (e.g., piped input)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}
