package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/good-yellow-bee/bugboard/internal/api"
	"github.com/good-yellow-bee/bugboard/internal/storage"
	"github.com/good-yellow-bee/bugboard/internal/web"
	"github.com/good-yellow-bee/bugboard/pkg/config"
)

var (
	configFile string
	httpAddr   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "bugboard-server",
	Short: "BugBoard Server - Issue tracking backend",
	Long: `BugBoard Server exposes the REST API and the browser UI for
tracking projects and issues across admin, developer, and tester roles.`,
	RunE: runServer,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bugboard-server %s\n", config.Version)
		fmt.Printf("  commit: %s\n", config.Commit)
		fmt.Printf("  built:  %s\n", config.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVarP(&httpAddr, "address", "a", "", "HTTP listen address")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg *Config

	// Load configuration from file if provided
	if configFile != "" {
		var err error
		cfg, err = LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = DefaultConfig()
	}

	// Override with CLI flags
	if httpAddr != "" {
		cfg.Server.Address = httpAddr
	}
	cfg.Verbose = verbose

	// Get JWT secret from environment
	jwtSecret := os.Getenv("BUGBOARD_JWT_SECRET")
	if jwtSecret == "" {
		return fmt.Errorf("BUGBOARD_JWT_SECRET environment variable is required")
	}

	// Auto-create data directory
	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	// Initialize storage
	store := storage.NewSQLiteStorage(cfg.Database.Path)
	if err := store.Open(); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Create the bootstrap admin on first run if credentials are set
	adminEmail := os.Getenv("BUGBOARD_ADMIN_EMAIL")
	adminPassword := os.Getenv("BUGBOARD_ADMIN_PASSWORD")
	if err := store.EnsureAdminUser(adminEmail, adminPassword); err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}

	log.Printf("database initialized at %s", cfg.Database.Path)

	// Optional browser UI mounted at the root
	var webHandler http.Handler
	if cfg.Server.WebUI {
		csrfKey := os.Getenv("BUGBOARD_CSRF_KEY")
		if csrfKey == "" {
			csrfKey = jwtSecret
		}
		webHandler = web.NewServer(store, csrfKey).Routes()
	}

	apiCfg := &api.Config{
		Address:          cfg.Server.Address,
		JWTSecret:        []byte(jwtSecret),
		AccessTokenTTL:   cfg.Auth.AccessTokenTTL,
		LockoutThreshold: cfg.Auth.LockoutThreshold,
		LockoutDuration:  cfg.Auth.LockoutDuration,
		Verbose:          cfg.Verbose,
	}

	srv, err := api.New(apiCfg, store, webHandler)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("starting bugboard-server %s", config.Version)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(ctx)
	})

	if cfg.Metrics.Enabled {
		g.Go(func() error {
			return runMetricsServer(ctx, cfg.Metrics.Address)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	log.Printf("server stopped")
	return nil
}

// runMetricsServer exposes /metrics on its own listener so the scrape
// endpoint can stay off the public address.
func runMetricsServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:        addr,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
