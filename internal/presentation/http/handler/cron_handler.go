package handler

import (
	"github.com/coopshop/billing-api/internal/application/service"
	"github.com/coopshop/billing-api/internal/domain/enum"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/request"
	"github.com/coopshop/billing-api/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// CronHandler handles scheduled billing run triggers
type CronHandler struct {
	schedulerService *service.SchedulerService
}

// NewCronHandler creates a new cron handler
func NewCronHandler(schedulerService *service.SchedulerService) *CronHandler {
	return &CronHandler{schedulerService: schedulerService}
}

// TriggerInvoiceRun enqueues invoice generation jobs for all active
// subjects of a kind. The endpoint returns as soon as the jobs are queued;
// generation happens on the worker.
// @Summary Trigger a billing run
// @Tags cron
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.TriggerInvoiceRunRequest true "Run parameters"
// @Success 202 {object} response.APIResponse
// @Router /cron/invoices [post]
func (h *CronHandler) TriggerInvoiceRun(c *gin.Context) {
	var req request.TriggerInvoiceRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	kind, _ := enum.ParseSubjectKind(req.Kind)
	runDay, err := parseRunDay(req.RunDay)
	if err != nil {
		response.BadRequest(c, "Invalid run day")
		return
	}

	actorID := GetActorID(c)
	if actorID == nil {
		response.Unauthorized(c, "Not authenticated")
		return
	}

	enqueued, err := h.schedulerService.EnqueueInvoiceJobs(c.Request.Context(), kind, runDay, *actorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, "Billing run triggered", gin.H{
		"kind":     kind,
		"run_day":  runDay.Format("2006-01-02"),
		"enqueued": enqueued,
	})
}
