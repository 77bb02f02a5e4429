package handler

import (
	"context"
	"net/http"

	"realty_crm_backend/internal/leads/domain"
	"realty_crm_backend/internal/leads/guidance"
	"realty_crm_backend/internal/leads/service"
	"realty_crm_backend/internal/leads/transport"
	"realty_crm_backend/platform/apperr"
	"realty_crm_backend/platform/httpkit"
	"realty_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LeadService is what the handler needs from the service layer.
type LeadService interface {
	PriorityQueue(ctx context.Context, q service.PriorityQuery) (service.PriorityResult, error)
	ScoreLead(ctx context.Context, leadID string) (service.LeadScore, error)
	Guidance(ctx context.Context, q service.GuidanceQuery) (service.GuidanceResult, error)
	SuggestAssignee(ctx context.Context, leadID string) (service.AssignmentSuggestion, error)
	Assign(ctx context.Context, leadID, employeeID string) error
	Digest(ctx context.Context) (service.Digest, error)
}

// DigestQueue enqueues an out-of-schedule digest run.
type DigestQueue interface {
	RequestDigest(ctx context.Context) error
}

type Handler struct {
	svc   LeadService
	val   *validator.Validator
	queue DigestQueue
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"
	msgUnknownStatus    = "unknown status"
	msgQueueUnavailable = "digest scheduling unavailable"
)

// New builds the handler. queue may be nil when Redis is not configured.
func New(svc LeadService, val *validator.Validator, queue DigestQueue) *Handler {
	return &Handler{svc: svc, val: val, queue: queue}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/priority", h.PriorityQueue)
	rg.GET("/guidance", h.Guidance)
	rg.GET("/digest", h.Digest)
	rg.POST("/digest", h.RequestDigest)
	rg.GET("/:id/score", h.Score)
	rg.GET("/:id/assignment-suggestion", h.SuggestAssignee)
	rg.PUT("/:id/assign", h.Assign)
}

func (h *Handler) PriorityQueue(c *gin.Context) {
	var req transport.PriorityQueueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	q := service.PriorityQuery{IncludeCompleted: req.IncludeCompleted}
	if req.Status != "" {
		status := domain.ParseStatus(req.Status)
		if status == domain.StatusUnknown {
			httpkit.HandleError(c, apperr.Validation(msgUnknownStatus).WithDetails(req.Status))
			return
		}
		q.Status = &status
	}
	if req.Assignee != "" {
		q.AssigneeID = &req.Assignee
	}

	result, err := h.svc.PriorityQueue(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Guidance(c *gin.Context) {
	var req transport.GuidanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	tab, _ := guidance.ParseTab(req.Tab)
	q := service.GuidanceQuery{Tab: tab}
	if req.EmployeeID != "" {
		q.EmployeeID = &req.EmployeeID
	}

	result, err := h.svc.Guidance(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Score(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	result, err := h.svc.ScoreLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) SuggestAssignee(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	result, err := h.svc.SuggestAssignee(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Assign(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.Fields(err))
		return
	}

	if err := h.svc.Assign(c.Request.Context(), id, req.EmployeeID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AssignLeadResponse{LeadID: id, EmployeeID: req.EmployeeID})
}

func (h *Handler) Digest(c *gin.Context) {
	result, err := h.svc.Digest(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func leadID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidLeadID))
		return "", false
	}
	return id.String(), true
}

func (h *Handler) RequestDigest(c *gin.Context) {
	if h.queue == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, msgQueueUnavailable, nil)
		return
	}
	if err := h.queue.RequestDigest(c.Request.Context()); httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, gin.H{"status": "queued"})
}
