// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"realty_crm_backend/platform/events"
	"realty_crm_backend/platform/logger"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadAssigned is published after a lead's owner changes.
type LeadAssigned struct {
	BaseEvent
	LeadID     string `json:"leadId"`
	EmployeeID string `json:"employeeId"`
	Author     string `json:"author"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }
