package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidDate marks a date field that cannot be read as a calendar day.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError pins an unreadable date to the lead and column it came from.
type InvalidDateError struct {
	LeadID string `json:"leadId"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("lead %s: %s %q: %v", e.LeadID, e.Field, e.Value, ErrInvalidDate)
}

// Is lets errors.Is match ErrInvalidDate.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}
