// Package guidance builds the Smart Guidance call list: an unbounded urgency
// score per lead plus the reasons that produced it.
package guidance

import (
	"fmt"
	"strings"
	"time"

	"realty_crm_backend/internal/leads/domain"
)

// ReasonType categorizes a reason chip.
type ReasonType string

const (
	ReasonOverdue  ReasonType = "overdue"
	ReasonToday    ReasonType = "today"
	ReasonTomorrow ReasonType = "tomorrow"
	ReasonHot      ReasonType = "hot"
	ReasonWarm     ReasonType = "warm"
	ReasonStage    ReasonType = "stage"
	ReasonNote     ReasonType = "note"
	ReasonStale    ReasonType = "stale"
	ReasonFresh    ReasonType = "fresh"
	ReasonRetry    ReasonType = "retry"
)

// Level is the visual priority of a reason.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

func (l Level) valid() bool {
	switch l {
	case LevelCritical, LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// Reason explains one contribution to the score.
type Reason struct {
	Type     ReasonType `json:"type"`
	Text     string     `json:"text"`
	Priority Level      `json:"priority"`
}

// Annotated is a lead with its guidance score and reasons in the order they
// were generated.
type Annotated struct {
	domain.Lead
	Score   int      `json:"score"`
	Reasons []Reason `json:"reasons"`
}

// Has reports whether any reason has one of the given types.
func (a Annotated) Has(types ...ReasonType) bool {
	for _, r := range a.Reasons {
		for _, t := range types {
			if r.Type == t {
				return true
			}
		}
	}
	return false
}

// Annotator scores leads with a fixed rule set.
type Annotator struct {
	rules Rules
}

// NewAnnotator returns an annotator using rules.
func NewAnnotator(rules Rules) *Annotator {
	return &Annotator{rules: rules}
}

// Annotate scores a lead with DefaultRules.
func Annotate(lead domain.Lead, calls []domain.Call, now time.Time, loc *time.Location) Annotated {
	return NewAnnotator(DefaultRules()).Annotate(lead, calls, now, loc)
}

// Annotate scores the lead at now. today is taken in loc. calls may
// include other leads' calls; only this lead's most recent call counts.
func (a *Annotator) Annotate(lead domain.Lead, calls []domain.Call, now time.Time, loc *time.Location) Annotated {
	out := Annotated{Lead: lead, Reasons: []Reason{}}
	add := func(points int, t ReasonType, level Level, text string) {
		out.Score += points
		out.Reasons = append(out.Reasons, Reason{Type: t, Text: text, Priority: level})
	}

	a.followUpSignal(lead, domain.DateOf(now, loc), add)

	switch lead.InterestLevel {
	case domain.InterestHot:
		add(a.rules.Interest.Hot, ReasonHot, LevelHigh, "Hot lead, high conversion potential")
	case domain.InterestWarm:
		add(a.rules.Interest.Warm, ReasonWarm, LevelMedium, "Warm lead, nurture before it cools down")
	}

	if lead.Status == domain.StatusFollowUp {
		out.Score += a.rules.FollowUpStage
		if !out.Has(ReasonOverdue, ReasonToday) {
			out.Reasons = append(out.Reasons, Reason{Type: ReasonStage, Text: "In FollowUp stage, needs attention", Priority: LevelMedium})
		}
	}

	if group := a.matchNotes(lead.Notes); group != nil {
		add(group.Points, ReasonNote, group.Priority, group.Text)
	}

	if lead.LastActivity != nil {
		hours := int(now.Sub(*lead.LastActivity).Hours())
		if hours > a.rules.Staleness.AfterHours {
			add(a.rules.Staleness.Stale, ReasonStale, LevelMedium, fmt.Sprintf("No contact in %d days, re-engage", hours/24))
		}
	} else if len(lead.Notes) == 0 {
		add(a.rules.Staleness.Fresh, ReasonFresh, LevelMedium, "New lead, make first contact")
	}

	if last := latestCall(lead.ID, calls); last != nil && last.Status.NeedsRetry() {
		add(a.rules.Retry, ReasonRetry, LevelMedium, fmt.Sprintf("Last call: %s, try again", last.Status))
	}

	return out
}

func (a *Annotator) followUpSignal(lead domain.Lead, today domain.Date, add func(int, ReasonType, Level, string)) {
	if lead.FollowUpDate == nil {
		return
	}

	diff := domain.DaysBetween(today, *lead.FollowUpDate)
	switch {
	case diff < 0:
		days := -diff
		bonus := days * a.rules.FollowUp.OverduePerDay
		if bonus > a.rules.FollowUp.OverdueCap {
			bonus = a.rules.FollowUp.OverdueCap
		}
		add(a.rules.FollowUp.OverdueBase+bonus, ReasonOverdue, LevelCritical, fmt.Sprintf("Follow-up overdue by %d %s", days, plural(days, "day")))
	case diff == 0:
		text := "Follow-up scheduled today"
		if at := strings.TrimSpace(lead.FollowUpTime); at != "" {
			text += " at " + at
		}
		add(a.rules.FollowUp.Today, ReasonToday, LevelHigh, text)
	case diff == 1:
		add(a.rules.FollowUp.Tomorrow, ReasonTomorrow, LevelMedium, "Follow-up scheduled tomorrow")
	}
}

func (a *Annotator) matchNotes(notes []domain.Note) *KeywordGroup {
	if len(notes) == 0 {
		return nil
	}
	text := strings.ToLower(domain.NotesText(notes))
	for i := range a.rules.Notes {
		for _, kw := range a.rules.Notes[i].Keywords {
			if strings.Contains(text, kw) {
				return &a.rules.Notes[i]
			}
		}
	}
	return nil
}

// latestCall returns the newest call for leadID. On equal timestamps the
// earlier entry wins.
func latestCall(leadID string, calls []domain.Call) *domain.Call {
	var latest *domain.Call
	for i := range calls {
		c := &calls[i]
		if c.LeadID != leadID {
			continue
		}
		if latest == nil || c.Timestamp.After(latest.Timestamp) {
			latest = c
		}
	}
	return latest
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
