package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/web"
)

// healthHandler reports gateway liveness together with the reachability of
// each upstream service. An unreachable upstream degrades the report but
// does not fail it, since the gateway itself is still serving.
func healthHandler(upstreams UpstreamConfig) http.HandlerFunc {
	client := &http.Client{Timeout: 2 * time.Second}
	targets := map[string]string{
		"userservice":     upstreams.UserService,
		"activityservice": upstreams.ActivityService,
		"aiservice":       upstreams.AIService,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		statuses := make(map[string]string, len(targets))
		var mu sync.Mutex
		var wg sync.WaitGroup

		for name, base := range targets {
			wg.Add(1)
			go func(name, base string) {
				defer wg.Done()

				status := "down"
				req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, base+"/health", nil)
				if err == nil {
					resp, err := client.Do(req)
					if err == nil {
						if resp.StatusCode == http.StatusOK {
							status = "up"
						}
						_ = resp.Body.Close()
					}
				}

				mu.Lock()
				statuses[name] = status
				mu.Unlock()
			}(name, base)
		}
		wg.Wait()

		overall := "healthy"
		for _, status := range statuses {
			if status != "up" {
				overall = "degraded"
				break
			}
		}

		web.WriteJSONOK(w, map[string]any{
			"status":    overall,
			"upstreams": statuses,
		})
	}
}
