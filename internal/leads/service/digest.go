package service

import (
	"context"
	"time"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/ranking"
	"realty_crm_backend/internal/leads/repository"
	"realty_crm_backend/platform/apperr"
)

// TopPerformer is the digest's highlighted employee.
type TopPerformer struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	PerformanceScore float64 `json:"performanceScore"`
	CurrentLoad      int     `json:"currentLoad"`
}

// Digest is the daily management summary.
type Digest struct {
	Date         domain.Date     `json:"date"`
	GeneratedAt  time.Time       `json:"generatedAt"`
	NewLeads     int             `json:"newLeads"`
	SiteVisits   int             `json:"siteVisits"`
	Bookings     int             `json:"bookings"`
	Unassigned   int             `json:"unassigned"`
	Priority     ranking.Summary `json:"priority"`
	TopPerformer *TopPerformer   `json:"topPerformer"`
	InvalidDates int             `json:"invalidDates"`
}

// Digest summarizes the pipeline for today.
func (s *Service) Digest(ctx context.Context) (Digest, error) {
	now := s.clock.Now()
	today := domain.DateOf(now, s.opts.Location)

	leads, bad, err := s.loadLeads(ctx, repository.LeadFilter{}, false)
	if err != nil {
		return Digest{}, withOp(err, "Digest")
	}
	stats, err := s.roster.ListEmployeeStats(ctx)
	if err != nil {
		return Digest{}, withOp(apperr.Internal("load employee stats", err), "Digest")
	}

	d := Digest{
		Date:         today,
		GeneratedAt:  now,
		Priority:     ranking.Rank(leads, ranking.Options{}, today).Summary,
		TopPerformer: topPerformer(stats),
	}
	invalid := invalidDates(bad, func(r rejected) bool { return !r.status.IsClosed() })
	s.warnInvalid(ctx, "Digest", invalid)
	d.InvalidDates = len(invalid)
	for _, lead := range leads {
		if domain.DateOf(lead.CreatedAt, s.opts.Location).Equal(today) {
			d.NewLeads++
		}
		switch lead.Status {
		case domain.StatusSiteVisit:
			d.SiteVisits++
		case domain.StatusBooked:
			d.Bookings++
		}
		if lead.AssignedTo == nil && !lead.Status.IsClosed() {
			d.Unassigned++
		}
	}
	return d, nil
}

// topPerformer picks the available employee with the best rating; the
// first one wins ties.
func topPerformer(stats []domain.EmployeeStats) *TopPerformer {
	var best *domain.EmployeeStats
	for i := range stats {
		emp := &stats[i]
		if !emp.IsAvailable {
			continue
		}
		if best == nil || emp.PerformanceScore > best.PerformanceScore {
			best = emp
		}
	}
	if best == nil {
		return nil
	}
	return &TopPerformer{ID: best.ID, Name: best.Name, PerformanceScore: best.PerformanceScore, CurrentLoad: best.CurrentLoad}
}
