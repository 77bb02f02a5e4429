package priority

import (
	"fmt"
	"strings"

	"realty_crm_backend/internal/leads/domain"
)

// BadgeLabel is the short follow-up chip shown next to a lead.
type BadgeLabel struct {
	Bucket Bucket `json:"bucket"`
	Text   string `json:"text"`
}

// Badge renders the follow-up chip. Leads without a follow-up get no badge.
func Badge(followUp *domain.Date, followUpTime string, today domain.Date) *BadgeLabel {
	if followUp == nil {
		return nil
	}

	diff := domain.DaysBetween(today, *followUp)
	bucket := forDiff(diff)
	at := strings.TrimSpace(followUpTime)

	var text string
	switch bucket {
	case Overdue:
		text = fmt.Sprintf("Overdue %dd", -diff)
	case Today:
		text = "Today"
		if at != "" {
			return &BadgeLabel{Bucket: bucket, Text: text + " @ " + at}
		}
	case Tomorrow:
		text = "Tomorrow"
	case ThisWeek:
		text = fmt.Sprintf("In %d days", diff)
	default:
		text = followUp.Format("Jan 2")
	}

	if at != "" {
		text += " • " + at
	}
	return &BadgeLabel{Bucket: bucket, Text: text}
}
