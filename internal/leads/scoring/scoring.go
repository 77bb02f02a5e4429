// Package scoring computes the 0-100 engagement and qualification score
// shown next to each lead.
package scoring

import (
	"strings"

	"realty_crm_backend/internal/leads/domain"
)

const (
	// scoreVersion tracks the scoring model for debugging and analysis.
	// Bump this when changing scoring logic.
	scoreVersion = "2026-crm-v1"

	maxScore = 100

	// Engagement points per activity log entry.
	pointsPerCall      = 5
	pointsPerMessage   = 3
	pointsPerSiteVisit = 10

	// Budget tiers, in rupees.
	highBudget   = 2_000_000 // 20L
	mediumBudget = 1_000_000 // 10L

	// VIP thresholds.
	vipBudget       = 5_000_000 // 50L
	vipUrgentBudget = 2_000_000

	hotThreshold  = 70
	warmThreshold = 40
)

// Factor keys reported in Result.Factors.
const (
	FactorCalls      = "engagement_calls"
	FactorMessages   = "engagement_messages"
	FactorSiteVisits = "engagement_site_visits"
	FactorBudget     = "budget"
	FactorTimeline   = "timeline"
	FactorProject    = "project"
)

// Badge is the Hot/Warm/Cold label derived from a score.
type Badge string

const (
	BadgeHot  Badge = "Hot"
	BadgeWarm Badge = "Warm"
	BadgeCold Badge = "Cold"
)

// Result is a score with its per-factor breakdown.
type Result struct {
	Score   int            `json:"score"`
	Factors map[string]int `json:"factors"`
	Badge   Badge          `json:"badge"`
	VIP     bool           `json:"vip"`
	Version string         `json:"version"`
}

// Score returns the lead score in [0, 100].
func Score(lead domain.Lead) int {
	return Evaluate(lead).Score
}

// Evaluate scores the lead and reports which factors contributed.
func Evaluate(lead domain.Lead) Result {
	factors := map[string]int{}
	total := 0

	calls, messages, visits := countEngagement(lead.ActivityLog)
	total += addFactor(factors, FactorCalls, calls*pointsPerCall)
	total += addFactor(factors, FactorMessages, messages*pointsPerMessage)
	total += addFactor(factors, FactorSiteVisits, visits*pointsPerSiteVisit)
	total += addFactor(factors, FactorBudget, scoreBudget(lead.Budget))
	total += addFactor(factors, FactorTimeline, scoreTimeline(lead.Timeline))
	total += addFactor(factors, FactorProject, scoreProject(lead.Project))

	score := capScore(total)
	return Result{
		Score:   score,
		Factors: factors,
		Badge:   BadgeFor(score),
		VIP:     IsVIP(lead),
		Version: scoreVersion,
	}
}

// BadgeFor labels a score as Hot, Warm or Cold.
func BadgeFor(score int) Badge {
	switch {
	case score >= hotThreshold:
		return BadgeHot
	case score >= warmThreshold:
		return BadgeWarm
	default:
		return BadgeCold
	}
}

// IsVIP flags very high budgets, or high budgets with an urgent timeline.
func IsVIP(lead domain.Lead) bool {
	if lead.Budget > vipBudget {
		return true
	}
	return lead.Budget > vipUrgentBudget && isUrgent(lead.Timeline)
}

func countEngagement(log []domain.Activity) (calls, messages, visits int) {
	for _, entry := range log {
		switch entry.Action {
		case "Call":
			calls++
		case "Message", "WhatsApp":
			messages++
		}
		if strings.Contains(entry.Action, "Site Visit") {
			visits++
		}
	}
	return calls, messages, visits
}

func scoreBudget(budget float64) int {
	switch {
	case budget >= highBudget:
		return 20
	case budget >= mediumBudget:
		return 10
	case budget > 0:
		return 5
	default:
		return 0
	}
}

// scoreTimeline always awards at least 5, including for an empty timeline.
func scoreTimeline(timeline string) int {
	lower := strings.ToLower(timeline)
	switch {
	case isUrgent(lower):
		return 15
	case strings.Contains(lower, "month") || strings.Contains(lower, "soon"):
		return 10
	default:
		return 5
	}
}

func scoreProject(project string) int {
	trimmed := strings.TrimSpace(project)
	if trimmed != "" && trimmed != domain.GeneralInquiry {
		return 10
	}
	return 5
}

func isUrgent(timeline string) bool {
	lower := strings.ToLower(timeline)
	return strings.Contains(lower, "immediate") || strings.Contains(lower, "urgent")
}

func addFactor(factors map[string]int, key string, value int) int {
	if value == 0 {
		return 0
	}
	factors[key] = value
	return value
}

func capScore(score int) int {
	if score > maxScore {
		return maxScore
	}
	if score < 0 {
		return 0
	}
	return score
}
