package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/identity"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
	"github.com/swaran21/fitness-AI-backend/pkg/userclient"
)

// Config contains the gateway configuration.
type Config struct {
	Port         int            `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration  `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration  `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration  `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	SyncTimeout  time.Duration  `mapstructure:"sync_timeout" yaml:"sync_timeout"`
	Upstreams    UpstreamConfig `mapstructure:"upstreams" yaml:"upstreams"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.SyncTimeout == 0 {
		c.SyncTimeout = 2 * time.Second
	}
	c.Upstreams.ApplyDefaults()
}

// Server is the gateway HTTP server.
type Server struct {
	server       *http.Server
	limiter      *web.RateLimiter
	config       Config
	shutdownOnce sync.Once
}

// NewServer creates a configured but not yet started gateway server.
func NewServer(config Config, extractor *identity.Extractor, metrics *web.Metrics) (*Server, error) {
	config.ApplyDefaults()

	users := userclient.New(config.Upstreams.UserService,
		userclient.WithTimeout(config.SyncTimeout))
	syncFilter := NewUserSync(extractor, users, config.SyncTimeout)
	limiter := web.NewRateLimiter(web.DefaultRateLimiterConfig())

	router, err := NewRouter(config.Upstreams, syncFilter, limiter, metrics)
	if err != nil {
		limiter.Stop()
		return nil, err
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		limiter: limiter,
		config:  config,
	}, nil
}

// Start starts the gateway and blocks until the context is cancelled or an
// error occurs. Cancellation triggers graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "port", s.config.Port)

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("gateway shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("gateway failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("gateway shutdown error: %w", err)
		} else {
			logger.Info("gateway stopped gracefully")
		}
	})
	return shutdownErr
}
