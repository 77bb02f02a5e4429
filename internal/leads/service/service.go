// Package service hosts the lead prioritization core: it loads snapshots,
// normalizes them and runs ranking, scoring, guidance and assignment.
package service

import (
	"context"
	"errors"
	"time"

	"realty_crm_backend/internal/events"
	"realty_crm_backend/internal/leads/assignment"
	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/guidance"
	"realty_crm_backend/internal/leads/priority"
	"realty_crm_backend/internal/leads/ranking"
	"realty_crm_backend/internal/leads/repository"
	"realty_crm_backend/internal/leads/scoring"
	"realty_crm_backend/platform/apperr"
	"realty_crm_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

// assignmentAuthor is recorded in the activity log for assignments made
// through the API.
const assignmentAuthor = "assignment"

// LeadStore is the persistence the service needs.
type LeadStore interface {
	ListLeadRecords(ctx context.Context, filter repository.LeadFilter) ([]repository.LeadRecord, error)
	GetLeadRecord(ctx context.Context, id string) (repository.LeadRecord, error)
	ListActivity(ctx context.Context, leadIDs []string) ([]repository.ActivityRecord, error)
	ListCalls(ctx context.Context, employeeID *string) ([]repository.CallRecord, error)
	AssignLead(ctx context.Context, leadID, employeeID, author string) error
}

// Roster provides employee stats and can drop a cached snapshot.
type Roster interface {
	ListEmployeeStats(ctx context.Context) ([]domain.EmployeeStats, error)
	Invalidate(ctx context.Context) error
}

// Options configures the service.
type Options struct {
	Location    *time.Location
	PhoneRegion string
	Rules       guidance.Rules
	Assignment  assignment.Options
}

type Service struct {
	store     LeadStore
	roster    Roster
	clock     domain.Clock
	annotator *guidance.Annotator
	opts      Options
	bus       events.Bus
	log       *logger.Logger
}

func New(store LeadStore, roster Roster, clock domain.Clock, opts Options, log *logger.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		store:     store,
		roster:    roster,
		clock:     clock,
		annotator: guidance.NewAnnotator(opts.Rules),
		opts:      opts,
		log:       log,
	}
}

// SetEventBus enables domain events. Without a bus nothing is published.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// PriorityQuery selects leads for the priority queue.
type PriorityQuery struct {
	Status           *domain.Status
	AssigneeID       *string
	IncludeCompleted bool
}

// GuidanceQuery selects a Smart Guidance worklist.
type GuidanceQuery struct {
	EmployeeID *string
	Tab        guidance.Tab
}

// LeadScore is a lead's 0-100 score together with its follow-up badge.
type LeadScore struct {
	LeadID   string               `json:"leadId"`
	Result   scoring.Result       `json:"result"`
	Priority priority.Bucket      `json:"priority"`
	Badge    *priority.BadgeLabel `json:"badge"`
}

// GuidanceResult is one tab of the worklist plus the all-tab summary.
type GuidanceResult struct {
	Tab          guidance.Tab               `json:"tab"`
	Leads        []guidance.Annotated       `json:"leads"`
	Summary      guidance.WorklistSummary   `json:"summary"`
	InvalidDates []*domain.InvalidDateError `json:"invalidDates"`
}

// AssignmentSuggestion is the best candidate and the full ranking.
type AssignmentSuggestion struct {
	LeadID     string                  `json:"leadId"`
	Suggestion *assignment.Suggestion  `json:"suggestion"`
	Candidates []assignment.Suggestion `json:"candidates"`
}

// PriorityResult is the ranked queue plus the leads that could not be
// classified because their follow-up date is unreadable.
type PriorityResult struct {
	ranking.Result
	InvalidDates []*domain.InvalidDateError `json:"invalidDates"`
}

// PriorityQueue ranks leads by follow-up urgency. Leads with an unreadable
// follow-up date are listed in InvalidDates, subject to the same status and
// completion filters, and are never placed in a bucket.
func (s *Service) PriorityQueue(ctx context.Context, q PriorityQuery) (PriorityResult, error) {
	today := domain.Today(s.clock, s.opts.Location)

	leads, bad, err := s.loadLeads(ctx, repository.LeadFilter{AssigneeID: q.AssigneeID}, true)
	if err != nil {
		return PriorityResult{}, withOp(err, "PriorityQueue")
	}
	invalid := invalidDates(bad, func(r rejected) bool {
		if q.Status != nil && r.status != *q.Status {
			return false
		}
		return q.IncludeCompleted || r.followUpStatus != domain.FollowUpCompleted
	})
	s.warnInvalid(ctx, "PriorityQueue", invalid)

	start := time.Now()
	result := ranking.Rank(leads, ranking.Options{
		Status:           q.Status,
		AssigneeID:       q.AssigneeID,
		IncludeCompleted: q.IncludeCompleted,
	}, today)
	s.log.WithContext(ctx).RankingPass("priority_queue", len(leads), time.Since(start))

	return PriorityResult{Result: result, InvalidDates: invalid}, nil
}

// ScoreLead scores one lead.
func (s *Service) ScoreLead(ctx context.Context, leadID string) (LeadScore, error) {
	today := domain.Today(s.clock, s.opts.Location)

	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return LeadScore{}, withOp(err, "ScoreLead")
	}

	return LeadScore{
		LeadID:   lead.ID,
		Result:   scoring.Evaluate(lead),
		Priority: priority.Classify(lead.FollowUpDate, today),
		Badge:    priority.Badge(lead.FollowUpDate, lead.FollowUpTime, today),
	}, nil
}

// Guidance builds the Smart Guidance worklist for one employee, or for
// everyone when EmployeeID is nil.
func (s *Service) Guidance(ctx context.Context, q GuidanceQuery) (GuidanceResult, error) {
	now := s.clock.Now()
	tab := q.Tab
	if tab == "" {
		tab = guidance.TabAll
	}

	var (
		leads []domain.Lead
		bad   []rejected
		calls []domain.Call
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		leads, bad, err = s.loadLeads(gctx, repository.LeadFilter{AssigneeID: q.EmployeeID}, false)
		return err
	})
	g.Go(func() error {
		records, err := s.store.ListCalls(gctx, q.EmployeeID)
		if err != nil {
			return apperr.Internal("load calls", err)
		}
		calls = toCalls(records)
		return nil
	})
	if err := g.Wait(); err != nil {
		return GuidanceResult{}, withOp(err, "Guidance")
	}

	start := time.Now()
	worklist := s.annotator.Worklist(leads, calls, guidance.WorklistOptions{EmployeeID: q.EmployeeID}, now, s.opts.Location)
	s.log.WithContext(ctx).RankingPass("guidance", len(leads), time.Since(start))

	invalid := invalidDates(bad, func(r rejected) bool { return !r.status.IsClosed() })
	s.warnInvalid(ctx, "Guidance", invalid)

	return GuidanceResult{
		Tab:          tab,
		Leads:        worklist.Filter(tab),
		Summary:      worklist.Summary,
		InvalidDates: invalid,
	}, nil
}

// SuggestAssignee recommends an employee for the lead. A nil Suggestion
// means nobody is available.
func (s *Service) SuggestAssignee(ctx context.Context, leadID string) (AssignmentSuggestion, error) {
	var (
		lead  domain.Lead
		stats []domain.EmployeeStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lead, err = s.loadLead(gctx, leadID)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.roster.ListEmployeeStats(gctx)
		if err != nil {
			return apperr.Internal("load employee stats", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return AssignmentSuggestion{}, withOp(err, "SuggestAssignee")
	}

	return AssignmentSuggestion{
		LeadID:     lead.ID,
		Suggestion: assignment.Suggest(lead, stats, s.opts.Assignment),
		Candidates: assignment.Rankings(lead, stats, s.opts.Assignment),
	}, nil
}

// Assign persists an assignment and drops the cached roster so loads are
// recounted.
func (s *Service) Assign(ctx context.Context, leadID, employeeID string) error {
	err := s.store.AssignLead(ctx, leadID, employeeID, assignmentAuthor)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("lead not found").WithOp("Assign")
	case errors.Is(err, repository.ErrEmployeeNotFound):
		return apperr.NotFound("employee not found").WithOp("Assign")
	case err != nil:
		return apperr.Internal("assign lead", err).WithOp("Assign")
	}

	if err := s.roster.Invalidate(ctx); err != nil {
		s.log.WithContext(ctx).Warn("roster cache invalidation failed", "error", err)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			EmployeeID: employeeID,
			Author:     assignmentAuthor,
		})
	}
	return nil
}

func (s *Service) loadLeads(ctx context.Context, filter repository.LeadFilter, withActivity bool) ([]domain.Lead, []rejected, error) {
	records, err := s.store.ListLeadRecords(ctx, filter)
	if err != nil {
		return nil, nil, apperr.Internal("load leads", err)
	}

	var activity []repository.ActivityRecord
	if withActivity && len(records) > 0 {
		ids := make([]string, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		activity, err = s.store.ListActivity(ctx, ids)
		if err != nil {
			return nil, nil, apperr.Internal("load activity", err)
		}
	}

	leads, bad := s.toLeads(records, activity)
	return leads, bad, nil
}

func (s *Service) loadLead(ctx context.Context, leadID string) (domain.Lead, error) {
	rec, err := s.store.GetLeadRecord(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Internal("load lead", err)
	}

	activity, err := s.store.ListActivity(ctx, []string{rec.ID})
	if err != nil {
		return domain.Lead{}, apperr.Internal("load activity", err)
	}

	leads, bad := s.toLeads([]repository.LeadRecord{rec}, activity)
	if len(bad) > 0 {
		return domain.Lead{}, invalidDateError(bad)
	}
	return leads[0], nil
}

func (s *Service) warnInvalid(ctx context.Context, op string, invalid []*domain.InvalidDateError) {
	if len(invalid) == 0 {
		return
	}
	ids := make([]string, 0, len(invalid))
	for _, e := range invalid {
		ids = append(ids, e.LeadID)
	}
	s.log.WithContext(ctx).Warn("leads with invalid follow-up dates", "op", op, "count", len(ids), "leadIds", ids)
}

func withOp(err error, op string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Op == "" {
		appErr.Op = op
	}
	return err
}
