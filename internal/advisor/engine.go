// Package advisor generates workout recommendations from recorded
// activities.
package advisor

import (
	"context"
	"fmt"
	"strings"

	activitymodels "github.com/swaran21/fitness-AI-backend/internal/activities/models"
	"github.com/swaran21/fitness-AI-backend/internal/advisor/models"
)

// Advisor turns an activity into a recommendation.
type Advisor interface {
	Advise(ctx context.Context, activity *activitymodels.Activity) (*models.Recommendation, error)
}

// HeuristicAdvisor generates recommendations from fixed per-type heuristics.
// Deterministic for a given activity, which keeps regeneration idempotent.
type HeuristicAdvisor struct{}

// NewHeuristicAdvisor creates a HeuristicAdvisor.
func NewHeuristicAdvisor() *HeuristicAdvisor {
	return &HeuristicAdvisor{}
}

// Advise implements Advisor.
func (a *HeuristicAdvisor) Advise(ctx context.Context, activity *activitymodels.Activity) (*models.Recommendation, error) {
	if activity.ID == "" {
		return nil, fmt.Errorf("activity id is required")
	}
	if activity.UserID == "" {
		return nil, fmt.Errorf("activity user id is required")
	}

	return &models.Recommendation{
		ActivityID:   activity.ID,
		UserID:       activity.UserID,
		ActivityType: string(activity.Type),
		Summary:      summarize(activity),
		Improvements: improvements(activity),
		Suggestions:  suggestions(activity.Type),
		Safety:       safety(activity.Type),
	}, nil
}

func summarize(activity *activitymodels.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You completed a %d-minute %s session",
		activity.DurationMinutes, strings.ToLower(string(activity.Type)))
	if activity.CaloriesBurned > 0 {
		fmt.Fprintf(&b, ", burning roughly %d calories", activity.CaloriesBurned)
	}
	b.WriteString(".")

	switch {
	case activity.DurationMinutes >= 60:
		b.WriteString(" That is a substantial workout; prioritize recovery before your next intense session.")
	case activity.DurationMinutes >= 30:
		b.WriteString(" Solid session length; this pace sustains steady progress.")
	case activity.DurationMinutes > 0:
		b.WriteString(" Short sessions still count; consider extending gradually toward 30 minutes.")
	}
	return b.String()
}

func improvements(activity *activitymodels.Activity) models.StringList {
	var out models.StringList

	if activity.DurationMinutes > 0 && activity.DurationMinutes < 30 {
		out = append(out, "Increase session duration by 5 minutes each week until you reach 30 minutes")
	}
	if activity.CaloriesBurned == 0 {
		out = append(out, "Record calorie estimates to track workout intensity over time")
	}
	if _, ok := activity.AdditionalMetrics["avg_heart_rate"]; !ok {
		out = append(out, "Track your heart rate to train in the right intensity zone")
	}

	if len(out) == 0 {
		out = append(out, "Maintain your current routine and add variety to avoid plateaus")
	}
	return out
}

func suggestions(t activitymodels.ActivityType) models.StringList {
	switch t {
	case activitymodels.TypeRunning:
		return models.StringList{
			"Alternate easy runs with interval training",
			"Schedule a weekly long run at conversational pace",
		}
	case activitymodels.TypeWalking:
		return models.StringList{
			"Add short brisk intervals to raise your average pace",
		}
	case activitymodels.TypeCycling:
		return models.StringList{
			"Mix cadence drills into longer rides",
			"Include one hill session per week",
		}
	case activitymodels.TypeSwimming:
		return models.StringList{
			"Vary strokes across sessions to balance muscle groups",
		}
	case activitymodels.TypeYoga:
		return models.StringList{
			"Pair yoga days with strength or cardio sessions for a balanced week",
		}
	case activitymodels.TypeStrength:
		return models.StringList{
			"Rotate muscle groups and keep at least one rest day between sessions",
			"Progress load by small increments once all sets feel controlled",
		}
	case activitymodels.TypeCardio:
		return models.StringList{
			"Alternate steady-state and interval cardio across the week",
		}
	default:
		return models.StringList{
			"Aim for a consistent weekly schedule across your activities",
		}
	}
}

func safety(t activitymodels.ActivityType) models.StringList {
	out := models.StringList{
		"Warm up before and cool down after each session",
		"Stay hydrated, especially for sessions over 45 minutes",
	}
	switch t {
	case activitymodels.TypeRunning, activitymodels.TypeCardio:
		out = append(out, "Stop if you feel sharp joint pain; persistent pain warrants a professional opinion")
	case activitymodels.TypeStrength:
		out = append(out, "Use a spotter or lower the load when attempting new maximums")
	case activitymodels.TypeSwimming:
		out = append(out, "Swim in supervised areas and rest at the first sign of cramping")
	}
	return out
}
