// Package ranking orders a lead collection by follow-up urgency.
package ranking

import (
	"sort"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/priority"
)

// Options filters the collection before ranking. Nil fields do not filter.
type Options struct {
	Status           *domain.Status
	AssigneeID       *string
	IncludeCompleted bool
}

// RankedLead is a lead with its computed priority bucket.
type RankedLead struct {
	domain.Lead
	CalculatedPriority priority.Bucket `json:"calculatedPriority"`
}

// Summary counts the ranked leads per bucket.
type Summary struct {
	Overdue    int `json:"overdue"`
	Today      int `json:"today"`
	Tomorrow   int `json:"tomorrow"`
	ThisWeek   int `json:"thisWeek"`
	Future     int `json:"future"`
	NoFollowUp int `json:"noFollowUp"`
	Total      int `json:"total"`
}

// Result is the ordered leads plus their summary.
type Result struct {
	Leads   []RankedLead `json:"leads"`
	Summary Summary      `json:"summary"`
}

// Rank filters, classifies and sorts leads. Every lead is classified against
// the same today. The order is total and stable.
func Rank(leads []domain.Lead, opts Options, today domain.Date) Result {
	ranked := make([]RankedLead, 0, len(leads))
	for _, lead := range leads {
		if !opts.keep(lead) {
			continue
		}
		ranked = append(ranked, RankedLead{
			Lead:               lead,
			CalculatedPriority: priority.Classify(lead.FollowUpDate, today),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	return Result{Leads: ranked, Summary: summarize(ranked)}
}

func (o Options) keep(lead domain.Lead) bool {
	if o.Status != nil && lead.Status != *o.Status {
		return false
	}
	if o.AssigneeID != nil && !lead.IsAssignedTo(*o.AssigneeID) {
		return false
	}
	if !o.IncludeCompleted && lead.FollowUpStatus == domain.FollowUpCompleted {
		return false
	}
	return true
}

func less(a, b RankedLead) bool {
	if a.CalculatedPriority != b.CalculatedPriority {
		return a.CalculatedPriority.Weight() < b.CalculatedPriority.Weight()
	}

	switch {
	case a.FollowUpDate != nil && b.FollowUpDate != nil:
		if !a.FollowUpDate.Equal(*b.FollowUpDate) {
			return a.FollowUpDate.Before(*b.FollowUpDate)
		}
	case a.FollowUpDate != nil:
		return true
	case b.FollowUpDate != nil:
		return false
	}

	return a.MostRecent().After(b.MostRecent())
}

func summarize(ranked []RankedLead) Summary {
	s := Summary{Total: len(ranked)}
	for _, lead := range ranked {
		switch lead.CalculatedPriority {
		case priority.Overdue:
			s.Overdue++
		case priority.Today:
			s.Today++
		case priority.Tomorrow:
			s.Tomorrow++
		case priority.ThisWeek:
			s.ThisWeek++
		case priority.Future:
			s.Future++
		default:
			s.NoFollowUp++
		}
	}
	return s
}
