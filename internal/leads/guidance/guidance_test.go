package guidance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"realty_crm_backend/internal/leads/domain"
)

var (
	now   = time.Date(2026, time.October, 14, 11, 0, 0, 0, time.UTC)
	today = domain.DateOf(now, time.UTC)
)

func dayOffset(n int) *domain.Date {
	d := today.AddDays(n)
	return &d
}

func notes(texts ...string) []domain.Note {
	out := make([]domain.Note, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.Note{Text: t})
	}
	return out
}

func reasonTypes(a Annotated) []ReasonType {
	out := make([]ReasonType, 0, len(a.Reasons))
	for _, r := range a.Reasons {
		out = append(out, r.Type)
	}
	return out
}

func TestAnnotateEndToEndScenario(t *testing.T) {
	lead := domain.Lead{
		ID:            "lead-1",
		FollowUpDate:  dayOffset(0),
		InterestLevel: domain.InterestHot,
		Notes:         notes("customer wants to book"),
	}

	got := Annotate(lead, nil, now, time.UTC)
	if got.Score != 165 {
		t.Fatalf("expected 165, got %d (reasons %v)", got.Score, reasonTypes(got))
	}
	want := []ReasonType{ReasonToday, ReasonHot, ReasonNote}
	types := reasonTypes(got)
	if len(types) != len(want) {
		t.Fatalf("expected reasons %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected reasons %v, got %v", want, types)
		}
	}
	if got.Reasons[2].Priority != LevelHigh {
		t.Fatalf("expected high priority note, got %s", got.Reasons[2].Priority)
	}
}

func TestAnnotateOverdueYesterday(t *testing.T) {
	lead := domain.Lead{ID: "l", FollowUpDate: dayOffset(-1), Notes: notes("spoke")}
	got := Annotate(lead, nil, now, time.UTC)

	if got.Score < 100 {
		t.Fatalf("expected score >= 100, got %d", got.Score)
	}
	first := got.Reasons[0]
	if first.Type != ReasonOverdue || first.Priority != LevelCritical {
		t.Fatalf("expected critical overdue reason, got %+v", first)
	}
	if first.Text != "Follow-up overdue by 1 day" {
		t.Fatalf("unexpected text %q", first.Text)
	}
}

func TestAnnotateOverdueBonusCaps(t *testing.T) {
	cases := map[int]int{-1: 105, -4: 120, -10: 150, -40: 150}
	for offset, want := range cases {
		lead := domain.Lead{ID: "l", FollowUpDate: dayOffset(offset), Notes: notes("x")}
		if got := Annotate(lead, nil, now, time.UTC).Score; got != want {
			t.Errorf("offset %d: expected %d, got %d", offset, want, got)
		}
	}
}

func TestAnnotateTodayWithTimeAndTomorrow(t *testing.T) {
	today := Annotate(domain.Lead{ID: "a", FollowUpDate: dayOffset(0), FollowUpTime: "15:30", Notes: notes("x")}, nil, now, time.UTC)
	if today.Reasons[0].Text != "Follow-up scheduled today at 15:30" {
		t.Fatalf("unexpected text %q", today.Reasons[0].Text)
	}

	tomorrow := Annotate(domain.Lead{ID: "b", FollowUpDate: dayOffset(1), Notes: notes("x")}, nil, now, time.UTC)
	if tomorrow.Score != 60 || tomorrow.Reasons[0].Type != ReasonTomorrow {
		t.Fatalf("expected tomorrow +60, got %d %v", tomorrow.Score, reasonTypes(tomorrow))
	}

	later := Annotate(domain.Lead{ID: "c", FollowUpDate: dayOffset(3), Notes: notes("x")}, nil, now, time.UTC)
	if later.Score != 0 || len(later.Reasons) != 0 {
		t.Fatalf("expected no follow-up signal beyond tomorrow, got %d %v", later.Score, reasonTypes(later))
	}
}

func TestAnnotateFollowUpStageReasonSuppressedByToday(t *testing.T) {
	withToday := Annotate(domain.Lead{ID: "a", Status: domain.StatusFollowUp, FollowUpDate: dayOffset(0), Notes: notes("x")}, nil, now, time.UTC)
	if withToday.Score != 105 {
		t.Fatalf("expected 105, got %d", withToday.Score)
	}
	if withToday.Has(ReasonStage) {
		t.Fatal("expected stage reason suppressed when today reason exists")
	}

	plain := Annotate(domain.Lead{ID: "b", Status: domain.StatusFollowUp, Notes: notes("x")}, nil, now, time.UTC)
	if plain.Score != 15 || !plain.Has(ReasonStage) {
		t.Fatalf("expected stage reason with 15, got %d %v", plain.Score, reasonTypes(plain))
	}
}

func TestAnnotateNoteGroupsFirstMatchWins(t *testing.T) {
	cases := []struct {
		text  string
		score int
		level Level
	}{
		{"Interested, also asked to call back", 35, LevelHigh},
		{"Asked to call on Monday", 30, LevelHigh},
		{"Wants to see the show flat", 25, LevelMedium},
		{"Not reachable twice", 10, LevelLow},
	}
	for _, tc := range cases {
		got := Annotate(domain.Lead{ID: "l", Notes: notes(tc.text)}, nil, now, time.UTC)
		if got.Score != tc.score {
			t.Errorf("%q: expected %d, got %d", tc.text, tc.score, got.Score)
			continue
		}
		if len(got.Reasons) != 1 || got.Reasons[0].Priority != tc.level {
			t.Errorf("%q: expected one %s note reason, got %+v", tc.text, tc.level, got.Reasons)
		}
	}
}

func TestAnnotateStaleAndFresh(t *testing.T) {
	lastWeek := now.Add(-100 * time.Hour)
	stale := Annotate(domain.Lead{ID: "a", LastActivity: &lastWeek}, nil, now, time.UTC)
	if stale.Score != 25 || stale.Reasons[0].Text != "No contact in 4 days, re-engage" {
		t.Fatalf("expected stale +25 with 4 days, got %d %+v", stale.Score, stale.Reasons)
	}

	exactly72 := now.Add(-72 * time.Hour)
	recent := Annotate(domain.Lead{ID: "b", LastActivity: &exactly72}, nil, now, time.UTC)
	if recent.Score != 0 {
		t.Fatalf("expected no stale signal at exactly 72h, got %d", recent.Score)
	}

	fresh := Annotate(domain.Lead{ID: "c"}, nil, now, time.UTC)
	if fresh.Score != 20 || fresh.Reasons[0].Type != ReasonFresh {
		t.Fatalf("expected fresh +20, got %d %v", fresh.Score, reasonTypes(fresh))
	}
}

func TestAnnotateRetryUsesMostRecentCall(t *testing.T) {
	lead := domain.Lead{ID: "lead-1", Notes: notes("x")}
	calls := []domain.Call{
		{LeadID: "lead-1", Status: domain.CallConnected, Timestamp: now.Add(-48 * time.Hour)},
		{LeadID: "lead-1", Status: domain.CallBusy, Timestamp: now.Add(-1 * time.Hour)},
		{LeadID: "lead-2", Status: domain.CallConnected, Timestamp: now},
	}

	got := Annotate(lead, calls, now, time.UTC)
	if got.Score != 15 || !got.Has(ReasonRetry) {
		t.Fatalf("expected retry +15, got %d %v", got.Score, reasonTypes(got))
	}
	if !strings.Contains(got.Reasons[0].Text, "Busy") {
		t.Fatalf("expected call status in text, got %q", got.Reasons[0].Text)
	}

	calls[0].Timestamp = now
	if Annotate(lead, calls, now, time.UTC).Has(ReasonRetry) {
		t.Fatal("expected no retry once the latest call connected")
	}
}

func TestAnnotateScoreIsUnclamped(t *testing.T) {
	last := now.Add(-200 * time.Hour)
	lead := domain.Lead{
		ID:            "l",
		Status:        domain.StatusFollowUp,
		FollowUpDate:  dayOffset(-20),
		InterestLevel: domain.InterestHot,
		Notes:         notes("interested"),
		LastActivity:  &last,
	}
	calls := []domain.Call{{LeadID: "l", Status: domain.CallNotConnected, Timestamp: now}}

	// 150 + 40 + 15 + 35 + 25 + 15
	if got := Annotate(lead, calls, now, time.UTC).Score; got != 280 {
		t.Fatalf("expected 280, got %d", got)
	}
}

func TestWorklistFiltersSortsAndSummarizes(t *testing.T) {
	emp := "emp-1"
	other := "emp-2"
	last := now.Add(-96 * time.Hour)
	leads := []domain.Lead{
		{ID: "booked", Status: domain.StatusBooked, AssignedTo: &emp, FollowUpDate: dayOffset(0)},
		{ID: "lost", Status: domain.StatusLost, AssignedTo: &emp},
		{ID: "stale", Status: domain.StatusOpen, AssignedTo: &emp, LastActivity: &last, Notes: notes("x")},
		{ID: "overdue", Status: domain.StatusOpen, AssignedTo: &emp, FollowUpDate: dayOffset(-2), Notes: notes("call back please")},
		{ID: "today", Status: domain.StatusOpen, AssignedTo: &emp, FollowUpDate: dayOffset(0), Notes: notes("x")},
		{ID: "not-mine", Status: domain.StatusOpen, AssignedTo: &other, FollowUpDate: dayOffset(-9)},
	}

	w := BuildWorklist(leads, nil, WorklistOptions{EmployeeID: &emp}, now, time.UTC)

	wantOrder := []string{"overdue", "today", "stale"}
	if len(w.Leads) != len(wantOrder) {
		t.Fatalf("expected %d leads, got %d", len(wantOrder), len(w.Leads))
	}
	for i, id := range wantOrder {
		if w.Leads[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, w.Leads[i].ID)
		}
	}

	want := WorklistSummary{Total: 3, Overdue: 1, Today: 1, NoteSignals: 1, Stale: 1}
	if w.Summary != want {
		t.Fatalf("expected summary %+v, got %+v", want, w.Summary)
	}

	if got := w.Filter(TabNotes); len(got) != 1 || got[0].ID != "overdue" {
		t.Fatalf("expected notes tab to hold overdue lead, got %d leads", len(got))
	}
	if got := w.Filter(TabAll); len(got) != 3 {
		t.Fatalf("expected all tab to hold 3 leads, got %d", len(got))
	}
}

func TestParseTab(t *testing.T) {
	if tab, ok := ParseTab(""); !ok || tab != TabAll {
		t.Fatalf("expected empty to map to all, got %q %v", tab, ok)
	}
	if _, ok := ParseTab("archived"); ok {
		t.Fatal("expected unknown tab to be rejected")
	}
}

func TestParseRulesOverridesDefaults(t *testing.T) {
	data := []byte(`
followUp:
  today: 80
notes:
  - keywords: ["Token Paid"]
    points: 50
    priority: high
    text: Token amount received
`)
	rules, err := ParseRules(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.FollowUp.Today != 80 || rules.FollowUp.Tomorrow != 60 {
		t.Fatalf("expected partial override, got %+v", rules.FollowUp)
	}
	if len(rules.Notes) != 1 || rules.Notes[0].Keywords[0] != "token paid" {
		t.Fatalf("expected replaced, lower-cased notes, got %+v", rules.Notes)
	}

	got := NewAnnotator(rules).Annotate(domain.Lead{ID: "l", Notes: notes("TOKEN PAID today")}, nil, now, time.UTC)
	if got.Score != 50 {
		t.Fatalf("expected 50, got %d", got.Score)
	}
}

func TestParseRulesRejectsBadConfig(t *testing.T) {
	cases := []string{
		"retry: -1",
		"staleness:\n  afterHours: 0",
		"notes:\n  - keywords: []\n    points: 5\n    priority: low",
		"notes:\n  - keywords: [x]\n    points: 5\n    priority: urgent",
		"followUp: [1, 2",
	}
	for _, data := range cases {
		if _, err := ParseRules([]byte(data)); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guidance.yaml")
	if err := os.WriteFile(path, []byte("retry: 20\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.Retry != 20 {
		t.Fatalf("expected retry 20, got %d", rules.Retry)
	}

	if _, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if rules, err := LoadRules(""); err != nil || rules.Retry != 15 {
		t.Fatalf("expected defaults for empty path, got %v %v", rules.Retry, err)
	}
}
