package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
)

// Notifier forwards a stored activity to the recommendation pipeline.
type Notifier interface {
	ActivityRecorded(activity *models.Activity)
}

// AINotifier posts recorded activities to the AI service's generate
// endpoint. Dispatch is fire-and-forget on a background goroutine: a
// recommendation that never materializes is an acceptable loss, a blocked
// activity upload is not.
type AINotifier struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewAINotifier creates a notifier for the given AI service base URL.
func NewAINotifier(baseURL string) *AINotifier {
	return &AINotifier{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		timeout:    10 * time.Second,
	}
}

// ActivityRecorded implements Notifier.
func (n *AINotifier) ActivityRecorded(activity *models.Activity) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.post(ctx, activity); err != nil {
			logger.Warn("failed to dispatch activity for recommendation",
				"activity_id", activity.ID,
				"error", err,
			)
		}
	}()
}

func (n *AINotifier) post(ctx context.Context, activity *models.Activity) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.baseURL+"/api/recommendations/generate", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ai service responded %d", resp.StatusCode)
	}

	logger.Debug("activity dispatched for recommendation", "activity_id", activity.ID)
	return nil
}

// NopNotifier discards notifications. Used when no AI service is configured
// and in tests.
type NopNotifier struct{}

// ActivityRecorded implements Notifier.
func (NopNotifier) ActivityRecorded(*models.Activity) {}
