package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/coursejobs/internal/app"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
	"github.com/yungbote/coursejobs/internal/services"
)

var (
	configPath string
	version    = "0.1.0"
	gitCommit  = "unknown"
	buildTime  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "coursejobs",
	Short: "Background job pipeline for course generation and course copy",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the job dispatcher",
	RunE:  runServe,
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run only the job dispatcher",
	RunE:  runWorker,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("coursejobs %s\n", version)
		fmt.Printf("Git commit: %s\n", gitCommit)
		fmt.Printf("Build time: %s\n", buildTime)
	},
}

var (
	tokenUser   string
	tokenTenant string
	tokenRole   string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a signed access token for local testing",
	RunE:  runToken,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/coursejobs.yaml", "config file path")
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user id (subject)")
	tokenCmd.Flags().StringVar(&tokenTenant, "tenant", ctxutil.SystemTenantID, "tenant id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", ctxutil.RoleSystemAdmin, "role claim")
	_ = tokenCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(serveCmd, workerCmd, versionCmd, tokenCmd)
}

func runServe(*cobra.Command, []string) error {
	return run(func(ctx context.Context, a *app.App) error { return a.Serve(ctx) })
}

func runWorker(*cobra.Command, []string) error {
	return run(func(ctx context.Context, a *app.App) error { return a.Work(ctx) })
}

func run(fn func(context.Context, *app.App) error) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, version)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer a.Close()

	a.Log.Info("Starting coursejobs", "version", version, "commit", gitCommit)
	if err := fn(ctx, a); err != nil && !errors.Is(err, context.Canceled) {
		a.Log.Error("Exited with error", "error", err)
		return err
	}
	a.Log.Info("Shut down cleanly")
	return nil
}

func runToken(*cobra.Command, []string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	auth := services.NewAuthService(logger.Nop(), cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	token, err := auth.IssueToken(tokenUser, tokenTenant, tokenRole)
	if err != nil {
		return err
	}
	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires in %s\n", cfg.Auth.AccessTokenTTL.Round(time.Second))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
