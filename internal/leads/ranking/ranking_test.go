package ranking

import (
	"testing"
	"time"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/priority"
)

var (
	today   = domain.NewDate(2026, time.October, 14)
	created = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)
)

func followUp(offset int) *domain.Date {
	d := today.AddDays(offset)
	return &d
}

func strPtr(s string) *string { return &s }

func ids(res Result) []string {
	out := make([]string, 0, len(res.Leads))
	for _, l := range res.Leads {
		out = append(out, l.ID)
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRankOrdersByBucketThenDateThenRecency(t *testing.T) {
	newer := created.Add(72 * time.Hour)
	leads := []domain.Lead{
		{ID: "none-old", CreatedAt: created},
		{ID: "future", CreatedAt: created, FollowUpDate: followUp(20)},
		{ID: "week-late", CreatedAt: created, FollowUpDate: followUp(6)},
		{ID: "week-early", CreatedAt: created, FollowUpDate: followUp(3)},
		{ID: "today", CreatedAt: created, FollowUpDate: followUp(0)},
		{ID: "overdue", CreatedAt: created, FollowUpDate: followUp(-2)},
		{ID: "none-new", CreatedAt: created, UpdatedAt: &newer},
		{ID: "tomorrow", CreatedAt: created, FollowUpDate: followUp(1)},
	}

	res := Rank(leads, Options{}, today)
	want := []string{"overdue", "today", "tomorrow", "week-early", "week-late", "future", "none-new", "none-old"}
	if got := ids(res); !sameOrder(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	wantSummary := Summary{Overdue: 1, Today: 1, Tomorrow: 1, ThisWeek: 2, Future: 1, NoFollowUp: 2, Total: 8}
	if res.Summary != wantSummary {
		t.Fatalf("expected summary %+v, got %+v", wantSummary, res.Summary)
	}
}

func TestRankNoFollowUpSortsLast(t *testing.T) {
	leads := []domain.Lead{
		{ID: "undated", CreatedAt: created.Add(1000 * time.Hour)},
		{ID: "far-future", CreatedAt: created, FollowUpDate: followUp(365)},
	}
	res := Rank(leads, Options{}, today)
	last := res.Leads[len(res.Leads)-1]
	if last.ID != "undated" || last.CalculatedPriority != priority.None {
		t.Fatalf("expected undated lead last with None, got %s/%s", last.ID, last.CalculatedPriority)
	}
}

func TestRankStableForFullTies(t *testing.T) {
	leads := []domain.Lead{
		{ID: "a", CreatedAt: created, FollowUpDate: followUp(0)},
		{ID: "b", CreatedAt: created, FollowUpDate: followUp(0)},
		{ID: "c", CreatedAt: created, FollowUpDate: followUp(0)},
	}
	if got := ids(Rank(leads, Options{}, today)); !sameOrder(got, []string{"a", "b", "c"}) {
		t.Fatalf("expected input order preserved, got %v", got)
	}
}

func TestRankIsIdempotent(t *testing.T) {
	leads := []domain.Lead{
		{ID: "1", CreatedAt: created},
		{ID: "2", CreatedAt: created, FollowUpDate: followUp(-5)},
		{ID: "3", CreatedAt: created.Add(time.Hour), FollowUpDate: followUp(4)},
		{ID: "4", CreatedAt: created, FollowUpDate: followUp(4)},
	}
	first := Rank(leads, Options{}, today)

	again := make([]domain.Lead, 0, len(first.Leads))
	for _, l := range first.Leads {
		again = append(again, l.Lead)
	}
	second := Rank(again, Options{}, today)

	if !sameOrder(ids(first), ids(second)) {
		t.Fatalf("expected same order, got %v then %v", ids(first), ids(second))
	}
}

func TestRankCompletedExclusion(t *testing.T) {
	leads := []domain.Lead{
		{ID: "done", CreatedAt: created, FollowUpDate: followUp(0), FollowUpStatus: domain.FollowUpCompleted},
		{ID: "open", CreatedAt: created, FollowUpDate: followUp(0), FollowUpStatus: domain.FollowUpPending},
	}

	excluded := Rank(leads, Options{}, today)
	if got := ids(excluded); !sameOrder(got, []string{"open"}) {
		t.Fatalf("expected completed lead excluded, got %v", got)
	}

	included := Rank(leads, Options{IncludeCompleted: true}, today)
	if got := ids(included); !sameOrder(got, []string{"done", "open"}) {
		t.Fatalf("expected completed lead included, got %v", got)
	}
}

func TestRankFilters(t *testing.T) {
	status := domain.StatusFollowUp
	leads := []domain.Lead{
		{ID: "mine-fu", Status: domain.StatusFollowUp, AssignedTo: strPtr("emp-1"), CreatedAt: created},
		{ID: "mine-new", Status: domain.StatusNew, AssignedTo: strPtr("emp-1"), CreatedAt: created},
		{ID: "theirs-fu", Status: domain.StatusFollowUp, AssignedTo: strPtr("emp-2"), CreatedAt: created},
		{ID: "unassigned-fu", Status: domain.StatusFollowUp, CreatedAt: created},
	}

	res := Rank(leads, Options{Status: &status, AssigneeID: strPtr("emp-1")}, today)
	if got := ids(res); !sameOrder(got, []string{"mine-fu"}) {
		t.Fatalf("expected only mine-fu, got %v", got)
	}
}

func TestRankEmptyInput(t *testing.T) {
	res := Rank(nil, Options{}, today)
	if len(res.Leads) != 0 {
		t.Fatalf("expected no leads, got %d", len(res.Leads))
	}
	if res.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", res.Summary)
	}
}
