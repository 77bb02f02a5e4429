package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Status is the pipeline stage of a lead.
type Status string

const (
	StatusNew       Status = "New"
	StatusOpen      Status = "Open"
	StatusFollowUp  Status = "FollowUp"
	StatusSiteVisit Status = "SiteVisit"
	StatusBooked    Status = "Booked"
	StatusLost      Status = "Lost"
	StatusUnknown   Status = "Unknown"
)

// InterestLevel is the sales rep's read of buying intent.
type InterestLevel string

const (
	InterestHot     InterestLevel = "Hot"
	InterestWarm    InterestLevel = "Warm"
	InterestCold    InterestLevel = "Cold"
	InterestUnknown InterestLevel = "Unknown"
)

// FollowUpStatus tracks whether the scheduled follow-up happened.
type FollowUpStatus string

const (
	FollowUpPending   FollowUpStatus = "Pending"
	FollowUpCompleted FollowUpStatus = "Completed"
	FollowUpMissed    FollowUpStatus = "Missed"
	FollowUpNone      FollowUpStatus = "None"
)

// CallStatus is the outcome of a call attempt.
type CallStatus string

const (
	CallConnected    CallStatus = "Connected"
	CallNotConnected CallStatus = "Not Connected"
	CallBusy         CallStatus = "Busy"
	CallUnknown      CallStatus = "Unknown"
)

var statusesByKey = map[string]Status{
	"new":           StatusNew,
	"open":          StatusOpen,
	"followup":      StatusFollowUp,
	"sitevisit":     StatusSiteVisit,
	"sitevisitdone": StatusSiteVisit,
	"visit":         StatusSiteVisit,
	"booked":        StatusBooked,
	"lost":          StatusLost,
}

var interestByKey = map[string]InterestLevel{
	"hot":  InterestHot,
	"warm": InterestWarm,
	"cold": InterestCold,
}

var followUpByKey = map[string]FollowUpStatus{
	"pending":   FollowUpPending,
	"scheduled": FollowUpPending,
	"completed": FollowUpCompleted,
	"done":      FollowUpCompleted,
	"missed":    FollowUpMissed,
}

var callByKey = map[string]CallStatus{
	"connected":    CallConnected,
	"answered":     CallConnected,
	"notconnected": CallNotConnected,
	"notanswered":  CallNotConnected,
	"noanswer":     CallNotConnected,
	"notreachable": CallNotConnected,
	"busy":         CallBusy,
}

// foldKey collapses casing and separator drift, so "Follow Up", "follow_up"
// and "FollowUp" all produce "followup".
func foldKey(raw string) string {
	folded := cases.Fold().String(strings.TrimSpace(raw))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, folded)
}

// ParseStatus normalizes free-text status labels. Unrecognized labels map to
// StatusUnknown.
func ParseStatus(raw string) Status {
	if s, ok := statusesByKey[foldKey(raw)]; ok {
		return s
	}
	return StatusUnknown
}

// ParseInterestLevel normalizes free-text interest labels.
func ParseInterestLevel(raw string) InterestLevel {
	if lvl, ok := interestByKey[foldKey(raw)]; ok {
		return lvl
	}
	return InterestUnknown
}

// ParseFollowUpStatus normalizes the follow-up status column. Empty or
// unrecognized values mean no status was recorded.
func ParseFollowUpStatus(raw string) FollowUpStatus {
	if st, ok := followUpByKey[foldKey(raw)]; ok {
		return st
	}
	return FollowUpNone
}

// ParseCallStatus normalizes call outcomes.
func ParseCallStatus(raw string) CallStatus {
	if st, ok := callByKey[foldKey(raw)]; ok {
		return st
	}
	return CallUnknown
}

// IsClosed reports whether the lead left the active pipeline.
func (s Status) IsClosed() bool {
	return s == StatusBooked || s == StatusLost
}

// NeedsRetry reports whether a call with this outcome should be retried.
func (c CallStatus) NeedsRetry() bool {
	return c == CallNotConnected || c == CallBusy
}
