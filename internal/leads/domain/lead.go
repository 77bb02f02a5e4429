// Package domain holds the lead records and value types shared by the
// prioritization, scoring, assignment and guidance packages.
package domain

import "time"

// GeneralInquiry is the project label meaning "no explicit preference".
const GeneralInquiry = "General Inquiry"

// Activity is one entry of a lead's engagement history.
type Activity struct {
	Action    string     `json:"action"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Author    string     `json:"author,omitempty"`
}

// Lead is a prospective customer as ingested from storage. Enumerations are
// already normalized and dates already parsed.
type Lead struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Status         Status         `json:"status"`
	AssignedTo     *string        `json:"assignedTo,omitempty"`
	AssignedToName string         `json:"assignedToName,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
	LastActivity   *time.Time     `json:"lastActivity,omitempty"`
	FollowUpDate   *Date          `json:"followUpDate,omitempty"`
	FollowUpTime   string         `json:"followUpTime,omitempty"`
	FollowUpStatus FollowUpStatus `json:"followUpStatus"`
	ActivityLog    []Activity     `json:"activityLog"`
	Notes          []Note         `json:"notes"`
	Budget         float64        `json:"budget"`
	Timeline       string         `json:"timeline,omitempty"`
	Project        string         `json:"project,omitempty"`
	InterestLevel  InterestLevel  `json:"interestLevel"`
	Category       string         `json:"category,omitempty"`
}

// MostRecent returns the later of UpdatedAt and CreatedAt.
func (l Lead) MostRecent() time.Time {
	if l.UpdatedAt != nil && l.UpdatedAt.After(l.CreatedAt) {
		return *l.UpdatedAt
	}
	return l.CreatedAt
}

// IsAssignedTo reports whether the lead is assigned to employeeID.
func (l Lead) IsAssignedTo(employeeID string) bool {
	return l.AssignedTo != nil && *l.AssignedTo == employeeID
}

// EmployeeStats is the roster snapshot consumed by the assignment advisor.
type EmployeeStats struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	CurrentLoad      int      `json:"currentLoad"`
	PerformanceScore float64  `json:"performanceScore"`
	Expertise        []string `json:"expertise"`
	IsAvailable      bool     `json:"isAvailable"`
}

// Call is one logged call attempt.
type Call struct {
	ID         string     `json:"id"`
	LeadID     string     `json:"leadId"`
	EmployeeID string     `json:"employeeId"`
	Status     CallStatus `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
}
