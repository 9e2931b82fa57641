// Command activityservice runs the activity tracking service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaran21/fitness-AI-backend/internal/activities"
	"github.com/swaran21/fitness-AI-backend/internal/activities/api"
	"github.com/swaran21/fitness-AI-backend/internal/activities/store"
	"github.com/swaran21/fitness-AI-backend/internal/config"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "activityservice",
	Short: "Fitness platform activity service",
	Long: `The activity service records workout sessions. Each upload is
validated against the user service (provisioning the user just in time if
needed) and dispatched to the AI service for a recommendation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("activityservice %s (%s)\n", version, commit)
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

	s, err := store.New(&cfg.ActivityService.Database)
	if err != nil {
		return fmt.Errorf("failed to open activity store: %w", err)
	}
	defer func() { _ = s.Close() }()

	users := activities.NewJITValidator(userclient.New(cfg.ActivityService.UserServiceURL))

	var notifier activities.Notifier = activities.NopNotifier{}
	if cfg.ActivityService.AIServiceURL != "" {
		notifier = activities.NewAINotifier(cfg.ActivityService.AIServiceURL)
	} else {
		logger.Warn("no ai service configured, recommendations disabled")
	}

	server := api.NewServer(
		api.ServerConfig{Port: cfg.ActivityService.Port},
		s,
		users,
		notifier,
		web.NewMetrics("activityservice"),
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
