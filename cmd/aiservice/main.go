// Command aiservice runs the recommendation service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaran21/fitness-AI-backend/internal/advisor"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/api"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/store"
	"github.com/swaran21/fitness-AI-backend/internal/config"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "aiservice",
	Short: "Fitness platform recommendation service",
	Long: `The AI service turns recorded activities into workout
recommendations and serves them back per user and per activity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aiservice %s (%s)\n", version, commit)
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

	s, err := store.New(&cfg.AIService.Database)
	if err != nil {
		return fmt.Errorf("failed to open recommendation store: %w", err)
	}
	defer func() { _ = s.Close() }()

	server := api.NewServer(
		api.ServerConfig{Port: cfg.AIService.Port},
		s,
		advisor.NewHeuristicAdvisor(),
		web.NewMetrics("aiservice"),
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
