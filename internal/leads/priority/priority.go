// Package priority maps follow-up dates to urgency buckets.
package priority

import (
	"fmt"

	"realty_crm_backend/internal/leads/domain"
)

// Bucket is a follow-up urgency class. The numeric value is the sort weight:
// lower is more urgent.
type Bucket int

const (
	Overdue  Bucket = 1
	Today    Bucket = 2
	Tomorrow Bucket = 3
	ThisWeek Bucket = 4
	Future   Bucket = 5
	None     Bucket = 999
)

// thisWeekHorizon is the last day offset that still counts as this week.
const thisWeekHorizon = 7

// Weight returns the sort weight of the bucket.
func (b Bucket) Weight() int { return int(b) }

func (b Bucket) String() string {
	switch b {
	case Overdue:
		return "overdue"
	case Today:
		return "today"
	case Tomorrow:
		return "tomorrow"
	case ThisWeek:
		return "this_week"
	case Future:
		return "future"
	case None:
		return "none"
	default:
		return fmt.Sprintf("bucket(%d)", int(b))
	}
}

// MarshalText encodes the bucket by name.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Classify buckets a follow-up date relative to today. A nil date is None.
func Classify(followUp *domain.Date, today domain.Date) Bucket {
	if followUp == nil {
		return None
	}
	return forDiff(domain.DaysBetween(today, *followUp))
}

// ClassifyRaw parses the date first. Malformed input is an error wrapping
// domain.ErrInvalidDate and never falls back to a bucket.
func ClassifyRaw(raw string, today domain.Date) (Bucket, error) {
	followUp, err := domain.ParseDate(raw)
	if err != nil {
		return None, err
	}
	return Classify(followUp, today), nil
}

func forDiff(diff int) Bucket {
	switch {
	case diff < 0:
		return Overdue
	case diff == 0:
		return Today
	case diff == 1:
		return Tomorrow
	case diff <= thisWeekHorizon:
		return ThisWeek
	default:
		return Future
	}
}
