package guidance

import (
	"sort"
	"time"

	"realty_crm_backend/internal/leads/domain"
)

// Tab is a worklist view over the annotated leads.
type Tab string

const (
	TabAll     Tab = "all"
	TabOverdue Tab = "overdue"
	TabToday   Tab = "today"
	TabNotes   Tab = "notes"
	TabStale   Tab = "stale"
)

// ParseTab maps a query value to a Tab. Empty means TabAll.
func ParseTab(raw string) (Tab, bool) {
	switch Tab(raw) {
	case "", TabAll:
		return TabAll, true
	case TabOverdue, TabToday, TabNotes, TabStale:
		return Tab(raw), true
	}
	return "", false
}

// Matches reports whether the annotated lead belongs in the tab.
func (t Tab) Matches(a Annotated) bool {
	switch t {
	case TabOverdue:
		return a.Has(ReasonOverdue)
	case TabToday:
		return a.Has(ReasonToday)
	case TabNotes:
		return a.Has(ReasonNote)
	case TabStale:
		return a.Has(ReasonStale, ReasonFresh)
	default:
		return true
	}
}

// WorklistOptions narrows the worklist to one employee's leads.
type WorklistOptions struct {
	EmployeeID *string
}

// WorklistSummary counts leads per tab.
type WorklistSummary struct {
	Total       int `json:"total"`
	Overdue     int `json:"overdue"`
	Today       int `json:"today"`
	NoteSignals int `json:"noteSignals"`
	Stale       int `json:"stale"`
}

// Worklist is the prioritized call list.
type Worklist struct {
	Leads   []Annotated     `json:"leads"`
	Summary WorklistSummary `json:"summary"`
}

// BuildWorklist runs the default rules over leads.
func BuildWorklist(leads []domain.Lead, calls []domain.Call, opts WorklistOptions, now time.Time, loc *time.Location) Worklist {
	return NewAnnotator(DefaultRules()).Worklist(leads, calls, opts, now, loc)
}

// Worklist annotates the open leads and sorts them by score, highest first.
// Booked and Lost leads are left out.
func (a *Annotator) Worklist(leads []domain.Lead, calls []domain.Call, opts WorklistOptions, now time.Time, loc *time.Location) Worklist {
	scored := make([]Annotated, 0, len(leads))
	for _, lead := range leads {
		if lead.Status.IsClosed() {
			continue
		}
		if opts.EmployeeID != nil && !lead.IsAssignedTo(*opts.EmployeeID) {
			continue
		}
		scored = append(scored, a.Annotate(lead, calls, now, loc))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return Worklist{Leads: scored, Summary: summarize(scored)}
}

// Filter returns the leads in the tab, keeping worklist order.
func (w Worklist) Filter(tab Tab) []Annotated {
	if tab == TabAll || tab == "" {
		return w.Leads
	}
	out := make([]Annotated, 0, len(w.Leads))
	for _, a := range w.Leads {
		if tab.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

func summarize(scored []Annotated) WorklistSummary {
	s := WorklistSummary{Total: len(scored)}
	for _, a := range scored {
		if TabOverdue.Matches(a) {
			s.Overdue++
		}
		if TabToday.Matches(a) {
			s.Today++
		}
		if TabNotes.Matches(a) {
			s.NoteSignals++
		}
		if TabStale.Matches(a) {
			s.Stale++
		}
	}
	return s
}
