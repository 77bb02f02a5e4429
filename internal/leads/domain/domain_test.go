package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseStatusFoldsDrift(t *testing.T) {
	for _, raw := range []string{"FollowUp", "Follow Up", "follow_up", "followup", " FOLLOW-UP "} {
		if got := ParseStatus(raw); got != StatusFollowUp {
			t.Errorf("ParseStatus(%q) = %q, want %q", raw, got, StatusFollowUp)
		}
	}
	if got := ParseStatus("archived"); got != StatusUnknown {
		t.Fatalf("expected unknown status, got %q", got)
	}
}

func TestParseCallStatusRetryVariants(t *testing.T) {
	for _, raw := range []string{"Not Connected", "not_connected", "not_answered", "Busy", "busy"} {
		if !ParseCallStatus(raw).NeedsRetry() {
			t.Errorf("expected %q to need retry", raw)
		}
	}
	if ParseCallStatus("Connected").NeedsRetry() {
		t.Fatal("connected calls do not need retry")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2026-10-14", "2026-10-14"},
		{"2026-10-14T18:45:00Z", "2026-10-14"},
		{"2026-10-14T23:59:59+05:30", "2026-10-14"},
		{"2026-10-14 09:00:00", "2026-10-14"},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.raw)
		if err != nil {
			t.Fatalf("ParseDate(%q): unexpected error %v", tc.raw, err)
		}
		if d.String() != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.raw, d, tc.want)
		}
	}
}

func TestParseDateBlankIsAbsent(t *testing.T) {
	d, err := ParseDate("  ")
	if err != nil || d != nil {
		t.Fatalf("expected nil date and nil error, got %v, %v", d, err)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"tomorrow", "14/10/2026", "2026-13-01"} {
		if _, err := ParseDate(raw); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDate, got %v", raw, err)
		}
	}
}

func TestDaysBetweenAcrossMonths(t *testing.T) {
	from := NewDate(2026, time.October, 30)
	to := NewDate(2026, time.November, 2)
	if got := DaysBetween(from, to); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := DaysBetween(to, from); got != -3 {
		t.Fatalf("expected -3, got %d", got)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	// 20:00 UTC is already the next day in Kolkata.
	clock := FixedClock{At: time.Date(2026, time.October, 14, 20, 0, 0, 0, time.UTC)}
	if got := Today(clock, kolkata).String(); got != "2026-10-15" {
		t.Fatalf("expected 2026-10-15, got %s", got)
	}
	if got := Today(clock, time.UTC).String(); got != "2026-10-14" {
		t.Fatalf("expected 2026-10-14, got %s", got)
	}
}

func TestNormalizeNotesArray(t *testing.T) {
	raw := json.RawMessage(`[{"text":"customer wants to book","timestamp":"2026-10-13T10:00:00Z","author":"Asha"},{"text":"  "}]`)
	notes, err := NormalizeNotes(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	if notes[0].Author != "Asha" || notes[0].Timestamp == nil {
		t.Fatalf("unexpected note %+v", notes[0])
	}
}

func TestNormalizeNotesString(t *testing.T) {
	notes, err := NormalizeNotes(json.RawMessage(`"called once\n\nasked to call back"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if NotesText(notes) != "called once\nasked to call back" {
		t.Fatalf("unexpected text %q", NotesText(notes))
	}
}

func TestNormalizeNotesNullAndInvalid(t *testing.T) {
	if notes, err := NormalizeNotes(json.RawMessage(`null`)); err != nil || notes != nil {
		t.Fatalf("expected no notes, got %v, %v", notes, err)
	}
	if _, err := NormalizeNotes(json.RawMessage(`42`)); err == nil {
		t.Fatal("expected error for numeric notes")
	}
}

func TestNormalizeNotesPlainStringArray(t *testing.T) {
	notes, err := NormalizeNotes(json.RawMessage(`["spoke briefly", "  ", "wants to book"]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	if notes[1].Text != "wants to book" {
		t.Fatalf("unexpected note %+v", notes[1])
	}
}

func TestNormalizeNotesMixedArray(t *testing.T) {
	notes, err := NormalizeNotes(json.RawMessage(`["first call", {"text":"site visit booked","author":"Asha"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 2 || notes[0].Text != "first call" || notes[1].Author != "Asha" {
		t.Fatalf("unexpected notes %+v", notes)
	}
	if _, err := NormalizeNotes(json.RawMessage(`["ok", 7]`)); err == nil {
		t.Fatal("expected error for numeric note item")
	}
}

func TestDateUnmarshalBlankIsInvalid(t *testing.T) {
	var lead Lead
	err := json.Unmarshal([]byte(`{"id":"l1","followUpDate":""}`), &lead)
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	for _, body := range []string{`{"id":"l1","followUpDate":null}`, `{"id":"l1"}`} {
		var lead Lead
		if err := json.Unmarshal([]byte(body), &lead); err != nil {
			t.Fatalf("unexpected error for %s: %v", body, err)
		}
		if lead.FollowUpDate != nil {
			t.Fatalf("expected nil follow-up date for %s, got %v", body, lead.FollowUpDate)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2026-10-14"`), &d); err != nil || d.String() != "2026-10-14" {
		t.Fatalf("expected 2026-10-14, got %s, %v", d, err)
	}
}

func TestParseBudget(t *testing.T) {
	cases := map[string]float64{
		"2000000":         2000000,
		"15,00,000":       1500000,
		"₹ 20,00,000":     2000000,
		"Rs. 5000000":     5000000,
		"1500000 INR":     1500000,
		"":                0,
		"call to discuss": 0,
	}
	for raw, want := range cases {
		if got := ParseBudget(raw); got != want {
			t.Errorf("ParseBudget(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestInvalidDateErrorMatchesSentinel(t *testing.T) {
	err := error(&InvalidDateError{LeadID: "l1", Field: "follow_up_date", Value: "soon"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Fatal("expected errors.Is to match ErrInvalidDate")
	}
}

func TestMostRecentPrefersUpdatedAt(t *testing.T) {
	created := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	lead := Lead{CreatedAt: created, UpdatedAt: &updated}
	if !lead.MostRecent().Equal(updated) {
		t.Fatalf("expected updatedAt, got %s", lead.MostRecent())
	}
	lead.UpdatedAt = nil
	if !lead.MostRecent().Equal(created) {
		t.Fatalf("expected createdAt, got %s", lead.MostRecent())
	}
}
