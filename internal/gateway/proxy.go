// Package gateway implements the API gateway: a reverse proxy that fans
// requests out to the platform services and reconciles the caller's
// identity just in time on the way through.
package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/swaran21/fitness-AI-backend/internal/logger"
	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// UpstreamConfig names the service backends the gateway proxies to.
type UpstreamConfig struct {
	UserService     string `mapstructure:"user_service" yaml:"user_service"`
	ActivityService string `mapstructure:"activity_service" yaml:"activity_service"`
	AIService       string `mapstructure:"ai_service" yaml:"ai_service"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *UpstreamConfig) ApplyDefaults() {
	if c.UserService == "" {
		c.UserService = "http://localhost:8081"
	}
	if c.ActivityService == "" {
		c.ActivityService = "http://localhost:8082"
	}
	if c.AIService == "" {
		c.AIService = "http://localhost:8083"
	}
}

// newProxy builds a reverse proxy for a single upstream base URL.
func newProxy(baseURL string) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url %q: %w", baseURL, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("upstream request failed",
			"upstream", target.Host,
			"path", r.URL.Path,
			"error", err,
		)
		web.ServiceUnavailable(w, "Upstream service is unavailable")
	}
	return proxy, nil
}
