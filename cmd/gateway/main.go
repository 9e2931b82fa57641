// Command gateway runs the API gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swaran21/fitness-AI-backend/internal/config"
	"github.com/swaran21/fitness-AI-backend/internal/gateway"
	"github.com/swaran21/fitness-AI-backend/internal/identity"
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
	Use:   "gateway",
	Short: "Fitness platform API gateway",
	Long: `The gateway is the single entry point to the platform. It rate
limits and proxies traffic to the user, activity and AI services, and
reconciles the caller's identity with the user service on the way through.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("gateway %s (%s)\n", version, commit)
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

	var verifier identity.TokenVerifier
	if cfg.Gateway.TokenSecret != "" {
		verifier = identity.NewHMACVerifier(cfg.Gateway.TokenSecret)
	} else {
		logger.Warn("no token secret configured, decoding bearer tokens without verification")
		verifier = identity.UnverifiedParser{}
	}

	server, err := gateway.NewServer(
		cfg.Gateway.Config,
		identity.NewExtractor(verifier),
		web.NewMetrics("gateway"),
	)
	if err != nil {
		return err
	}

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
