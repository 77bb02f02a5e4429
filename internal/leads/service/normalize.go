package service

import (
	"bytes"
	"errors"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/repository"
	"realty_crm_backend/platform/apperr"
	"realty_crm_backend/platform/phone"
	"realty_crm_backend/platform/sanitize"
)

const fieldFollowUpDate = "follow_up_date"

// rejected is a stored lead whose follow-up date could not be read. It keeps
// enough of the record for callers to apply their filters before reporting it.
type rejected struct {
	err            *domain.InvalidDateError
	status         domain.Status
	followUpStatus domain.FollowUpStatus
}

// toLeads converts stored rows into domain leads. Rows with an unreadable
// follow-up date are returned separately and never classified.
func (s *Service) toLeads(records []repository.LeadRecord, activity []repository.ActivityRecord) ([]domain.Lead, []rejected) {
	byLead := groupActivity(activity)

	leads := make([]domain.Lead, 0, len(records))
	var bad []rejected
	for _, rec := range records {
		lead, err := s.toLead(rec, byLead[rec.ID])
		var dateErr *domain.InvalidDateError
		if errors.As(err, &dateErr) {
			bad = append(bad, rejected{
				err:            dateErr,
				status:         domain.ParseStatus(rec.Status),
				followUpStatus: domain.ParseFollowUpStatus(rec.FollowUpStatus),
			})
			continue
		}
		leads = append(leads, lead)
	}
	return leads, bad
}

// invalidDates reports the rejected leads that keep clears. It never returns
// nil so the JSON field is always an array.
func invalidDates(bad []rejected, keep func(rejected) bool) []*domain.InvalidDateError {
	out := make([]*domain.InvalidDateError, 0, len(bad))
	for _, r := range bad {
		if keep == nil || keep(r) {
			out = append(out, r.err)
		}
	}
	return out
}

func (s *Service) toLead(rec repository.LeadRecord, activity []domain.Activity) (domain.Lead, error) {
	followUp, err := domain.ParseDate(rec.FollowUpDate)
	if err != nil {
		return domain.Lead{}, &domain.InvalidDateError{LeadID: rec.ID, Field: fieldFollowUpDate, Value: rec.FollowUpDate}
	}

	notes, err := domain.NormalizeNotes(rec.Notes)
	if err != nil {
		// An unreadable column still counts as having notes.
		s.log.Warn("lead notes unreadable, keeping raw text", "lead_id", rec.ID, "error", err)
		notes = []domain.Note{{Text: string(bytes.TrimSpace(rec.Notes))}}
	}

	if activity == nil {
		activity = []domain.Activity{}
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	for i := range notes {
		notes[i].Text = sanitize.Text(notes[i].Text)
	}

	return domain.Lead{
		ID:             rec.ID,
		Name:           rec.Name,
		Phone:          phone.NormalizeE164(rec.Phone, s.opts.PhoneRegion),
		Status:         domain.ParseStatus(rec.Status),
		AssignedTo:     rec.AssignedTo,
		AssignedToName: rec.AssignedToName,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		LastActivity:   rec.LastActivity,
		FollowUpDate:   followUp,
		FollowUpTime:   rec.FollowUpTime,
		FollowUpStatus: domain.ParseFollowUpStatus(rec.FollowUpStatus),
		ActivityLog:    activity,
		Notes:          notes,
		Budget:         domain.ParseBudget(rec.Budget),
		Timeline:       rec.Timeline,
		Project:        rec.Project,
		InterestLevel:  domain.ParseInterestLevel(rec.InterestLevel),
		Category:       rec.Category,
	}, nil
}

func groupActivity(records []repository.ActivityRecord) map[string][]domain.Activity {
	out := make(map[string][]domain.Activity)
	for _, rec := range records {
		at := rec.CreatedAt
		out[rec.LeadID] = append(out[rec.LeadID], domain.Activity{Action: rec.Action, Timestamp: &at, Author: rec.Author})
	}
	return out
}

func toCalls(records []repository.CallRecord) []domain.Call {
	out := make([]domain.Call, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.Call{
			ID:         rec.ID,
			LeadID:     rec.LeadID,
			EmployeeID: rec.EmployeeID,
			Status:     domain.ParseCallStatus(rec.Status),
			Timestamp:  rec.CreatedAt,
		})
	}
	return out
}

// invalidDateError is the 422 for an operation on a single unreadable lead.
func invalidDateError(bad []rejected) error {
	details := invalidDates(bad, nil)
	errs := make([]error, 0, len(details))
	for _, e := range details {
		errs = append(errs, e)
	}
	return apperr.InvalidDate("lead has an invalid follow-up date", errors.Join(errs...)).WithDetails(details)
}
