package advisor

import (
	"context"
	"strings"
	"testing"

	activitymodels "github.com/swaran21/fitness-AI-backend/internal/activities/models"
)

func TestAdvise(t *testing.T) {
	a := NewHeuristicAdvisor()
	ctx := context.Background()

	activity := &activitymodels.Activity{
		ID:              "act-1",
		UserID:          "ext-1",
		Type:            activitymodels.TypeRunning,
		DurationMinutes: 45,
		CaloriesBurned:  400,
	}

	rec, err := a.Advise(ctx, activity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ActivityID != "act-1" || rec.UserID != "ext-1" {
		t.Errorf("recommendation must reference the activity, got %+v", rec)
	}
	if !strings.Contains(rec.Summary, "45-minute") {
		t.Errorf("summary should mention the duration, got %q", rec.Summary)
	}
	if len(rec.Suggestions) == 0 || len(rec.Safety) == 0 {
		t.Error("expected suggestions and safety guidance")
	}
}

func TestAdviseDeterministic(t *testing.T) {
	a := NewHeuristicAdvisor()
	ctx := context.Background()

	activity := &activitymodels.Activity{
		ID:              "act-1",
		UserID:          "ext-1",
		Type:            activitymodels.TypeCycling,
		DurationMinutes: 60,
	}

	first, err := a.Advise(ctx, activity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.Advise(ctx, activity)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Summary != second.Summary {
		t.Error("advice for the same activity must be deterministic")
	}
}

func TestAdviseShortSession(t *testing.T) {
	a := NewHeuristicAdvisor()

	rec, err := a.Advise(context.Background(), &activitymodels.Activity{
		ID:              "act-2",
		UserID:          "ext-1",
		Type:            activitymodels.TypeWalking,
		DurationMinutes: 15,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, imp := range rec.Improvements {
		if strings.Contains(imp, "duration") {
			found = true
		}
	}
	if !found {
		t.Errorf("short sessions should get a duration improvement, got %v", rec.Improvements)
	}
}

func TestAdviseRejectsIncompleteActivity(t *testing.T) {
	a := NewHeuristicAdvisor()

	if _, err := a.Advise(context.Background(), &activitymodels.Activity{UserID: "ext-1"}); err == nil {
		t.Error("expected error for missing activity id")
	}
	if _, err := a.Advise(context.Background(), &activitymodels.Activity{ID: "act-1"}); err == nil {
		t.Error("expected error for missing user id")
	}
}
