// Package assignment recommends an employee for a lead from roster stats.
// Suggestions are advisory; the caller persists the actual assignment.
package assignment

import (
	"sort"
	"strings"

	"realty_crm_backend/internal/leads/domain"
)

// loadCeiling is the load at which an employee's capacity term reaches zero.
const loadCeiling = 50

// performanceWeight scales the 0-5 performance rating.
const performanceWeight = 10

// Options tunes the match score.
type Options struct {
	// ExpertiseBonus is added when the lead's category is in the employee's
	// expertise set. Zero disables it.
	ExpertiseBonus float64
}

// Suggestion is a candidate employee and the score that ranked them.
type Suggestion struct {
	Employee   domain.EmployeeStats `json:"employee"`
	MatchScore float64              `json:"matchScore"`
	Expertise  bool                 `json:"expertiseMatch"`
}

// Suggest returns the available employee with the highest match score, or
// nil when no one is available. Ties go to the earliest in stats.
func Suggest(lead domain.Lead, stats []domain.EmployeeStats, opts Options) *Suggestion {
	var best *Suggestion
	for _, emp := range stats {
		if !emp.IsAvailable {
			continue
		}
		candidate := score(lead, emp, opts)
		if best == nil || candidate.MatchScore > best.MatchScore {
			best = &candidate
		}
	}
	return best
}

// Rankings returns every available employee ordered by match score, highest
// first. Equal scores keep roster order.
func Rankings(lead domain.Lead, stats []domain.EmployeeStats, opts Options) []Suggestion {
	out := make([]Suggestion, 0, len(stats))
	for _, emp := range stats {
		if emp.IsAvailable {
			out = append(out, score(lead, emp, opts))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// MatchScore is (50 − load) + performance × 10, without any bonus.
func MatchScore(emp domain.EmployeeStats) float64 {
	return float64(loadCeiling-emp.CurrentLoad) + emp.PerformanceScore*performanceWeight
}

func score(lead domain.Lead, emp domain.EmployeeStats, opts Options) Suggestion {
	s := Suggestion{Employee: emp, MatchScore: MatchScore(emp)}
	if opts.ExpertiseBonus > 0 && hasExpertise(emp, lead.Category) {
		s.MatchScore += opts.ExpertiseBonus
		s.Expertise = true
	}
	return s
}

func hasExpertise(emp domain.EmployeeStats, category string) bool {
	category = strings.TrimSpace(category)
	if category == "" {
		return false
	}
	for _, tag := range emp.Expertise {
		if strings.EqualFold(strings.TrimSpace(tag), category) {
			return true
		}
	}
	return false
}
