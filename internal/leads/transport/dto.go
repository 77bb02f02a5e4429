package transport

// PriorityQueueRequest is the query string of GET /leads/priority.
type PriorityQueueRequest struct {
	Status           string `form:"status" validate:"omitempty,max=32"`
	Assignee         string `form:"assignee" validate:"omitempty,uuid"`
	IncludeCompleted bool   `form:"includeCompleted"`
}

// GuidanceRequest is the query string of GET /leads/guidance.
type GuidanceRequest struct {
	EmployeeID string `form:"employeeId" validate:"omitempty,uuid"`
	Tab        string `form:"tab" validate:"omitempty,oneof=all overdue today notes stale"`
}

// AssignLeadRequest is the body of PUT /leads/:id/assign.
type AssignLeadRequest struct {
	EmployeeID string `json:"employeeId" validate:"required,uuid"`
}

// AssignLeadResponse confirms an assignment.
type AssignLeadResponse struct {
	LeadID     string `json:"leadId"`
	EmployeeID string `json:"employeeId"`
}
