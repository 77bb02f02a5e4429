// Package leads wires the lead prioritization bounded context and mounts its routes.
package leads

import (
	"context"

	"realty_crm_backend/internal/events"
	apphttp "realty_crm_backend/internal/http"
	"realty_crm_backend/internal/leads/handler"
	"realty_crm_backend/internal/leads/service"
	"realty_crm_backend/platform/logger"
	"realty_crm_backend/platform/validator"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the leads module around an already built service.
// queue is optional and enables POST /leads/digest.
func NewModule(svc *service.Service, val *validator.Validator, queue handler.DigestQueue) *Module {
	return &Module{
		handler: handler.New(svc, val, queue),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for the scheduler and other consumers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterHandlers subscribes the module to the event bus and starts
// publishing lead events on it.
func (m *Module) RegisterHandlers(bus events.Bus, log *logger.Logger) {
	m.service.SetEventBus(bus)
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadAssigned)
		if !ok {
			return nil
		}
		log.WithContext(ctx).Info("lead assigned", "leadId", e.LeadID, "employeeId", e.EmployeeID, "author", e.Author)
		return nil
	}))
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
