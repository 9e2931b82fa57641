// Command userservice runs the identity and provisioning service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaran21/fitness-AI-backend/internal/config"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/users/api"
	"github.com/swaran21/fitness-AI-backend/internal/users/provision"
	"github.com/swaran21/fitness-AI-backend/internal/users/store"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "userservice",
	Short: "Fitness platform user service",
	Long: `The user service owns the canonical user records. It reconciles
identity assertions from the gateway, serves registration and profile
reads, and provisions records just in time for unknown identities.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("userservice %s (%s)\n", version, commit)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = "fitness.yaml"
		}
		cfg := &config.Config{}
		cfg.ApplyDefaults()
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Println("Configuration written to", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	s, err := store.New(&cfg.UserService.Database)
	if err != nil {
		return fmt.Errorf("failed to open user store: %w", err)
	}
	defer func() { _ = s.Close() }()

	metrics := web.NewMetrics("userservice")
	server := api.NewServer(
		api.ServerConfig{Port: cfg.UserService.Port},
		provision.NewCoordinator(s),
		s,
		metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
