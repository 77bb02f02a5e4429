package leads

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"realty_crm_backend/internal/events"
	apphttp "realty_crm_backend/internal/http"
	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/service"
	"realty_crm_backend/platform/logger"
	"realty_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestModule() *Module {
	svc := service.New(nil, nil, domain.FixedClock{}, service.Options{}, logger.Discard())
	return NewModule(svc, validator.New(), nil)
}

func TestRegisterRoutesMountsLeadsGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	newTestModule().RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})

	want := map[string]bool{
		"GET /api/v1/leads/priority":                  false,
		"GET /api/v1/leads/guidance":                  false,
		"GET /api/v1/leads/digest":                    false,
		"POST /api/v1/leads/digest":                   false,
		"GET /api/v1/leads/:id/score":                 false,
		"GET /api/v1/leads/:id/assignment-suggestion": false,
		"PUT /api/v1/leads/:id/assign":                false,
	}
	for _, r := range engine.Routes() {
		key := r.Method + " " + r.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for route, found := range want {
		if !found {
			t.Errorf("expected route %s to be registered", route)
		}
	}
}

func TestRegisterHandlersLogsAssignments(t *testing.T) {
	var buf bytes.Buffer
	bus := events.NewInMemoryBus(logger.Discard())
	newTestModule().RegisterHandlers(bus, logger.NewWithWriter("production", &buf))

	err := bus.PublishSync(context.Background(), events.LeadAssigned{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     "lead-1",
		EmployeeID: "emp-1",
		Author:     "assignment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"leadId":"lead-1"`) {
		t.Fatalf("expected assignment audit line, got %s", buf.String())
	}
}
